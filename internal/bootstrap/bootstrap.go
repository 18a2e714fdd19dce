package bootstrap

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yigit/enrollment/internal/app/migrations"
	"github.com/yigit/enrollment/internal/config"
	"github.com/yigit/enrollment/internal/db"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

// DefaultConfigPath is used when no --config flag is given
const DefaultConfigPath = "configs/config.yaml"

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
// A non-empty dsn replaces the configured connection.
func LoadConfigAndSetupLogger(configPath, dsn string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}
	if dsn != "" {
		cfg.Database.URL = dsn
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Debug().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Debug().Str("schema", cfg.Database.Schema).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Debug().Msg("Database connection successfully established.")
	return database, nil
}

// Units returns the declared tables followed by the SQL units found in
// the configured migrations directory, if any.
func Units(cfg *config.Config) ([]migrations.Unit, error) {
	units := migrations.DefaultUnits()
	if cfg.Migrations.Directory == "" {
		return units, nil
	}

	sqlUnits, err := migrations.LoadSQLUnits(cfg.Migrations.Directory)
	if err != nil {
		return nil, err
	}
	return append(units, sqlUnits...), nil
}

// BuildMigrator wires the migrator over database using cfg.
func BuildMigrator(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*migrations.Migrator, error) {
	units, err := Units(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to load migrations")
		return nil, err
	}

	return migrations.NewMigrator(database, units, migrations.Options{
		HistoryTable:      cfg.Migrations.HistoryTable,
		SingleTransaction: cfg.Migrations.SingleTransaction,
	}, lgr)
}
