package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigAndSetupLoggerAppliesDSN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n  format: json\n"), 0o600))

	cfg, _, err := LoadConfigAndSetupLogger(path, "postgres://u:p@db:5432/x")
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.GetPostgresConnectionString())
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadConfigAndSetupLoggerRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("migrations:\n  timeout: soon\n"), 0o600))

	_, _, err := LoadConfigAndSetupLogger(path, "")
	assert.Error(t, err)
}

func TestUnitsAppendsSQLDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0002_admission_index.up.sql"),
		[]byte("CREATE INDEX students_admission_date_index ON students (admission_date);"), 0o600))

	cfg, _, err := LoadConfigAndSetupLogger(filepath.Join(dir, "none.yaml"), "")
	require.NoError(t, err)

	units, err := Units(cfg)
	require.NoError(t, err)
	assert.Len(t, units, 6)

	cfg.Migrations.Directory = dir
	units, err = Units(cfg)
	require.NoError(t, err)
	require.Len(t, units, 7)
	assert.Equal(t, "admission_index", units[6].Name())

	cfg.Migrations.Directory = filepath.Join(dir, "missing")
	_, err = Units(cfg)
	assert.Error(t, err)
}
