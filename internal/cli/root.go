package cli

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yigit/enrollment/internal/app/migrations"
	"github.com/yigit/enrollment/internal/bootstrap"
	"github.com/yigit/enrollment/internal/config"
)

var (
	cfgFile string
	dsn     string
)

// rootCmd represents the base command when called without any sub-commands
var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "apply and revert the enrollment schema",
	Long:          `Create, drop and inspect the enrollment tables in a PostgreSQL database`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		DieErr(err)
	}
}

// DieErr reports err on stderr and exits non-zero
func DieErr(err error) {
	_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
	os.Exit(1)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", bootstrap.DefaultConfigPath, "config file")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "database connection URL, overrides the config file")
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	return bootstrap.LoadConfigAndSetupLogger(cfgFile, dsn)
}

// withMigrator connects to the database, builds the migrator and runs fn
func withMigrator(cmd *cobra.Command, fn func(ctx context.Context, m *migrations.Migrator) error) error {
	cfg, lgr, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return err
	}
	defer database.Close()

	m, err := bootstrap.BuildMigrator(cfg, database, lgr)
	if err != nil {
		return err
	}
	return fn(cmd.Context(), m)
}
