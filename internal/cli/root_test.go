package cli

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/msomdec/eventhub/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		migrateDown = 0
		logLevel = ""
		logFormat = ""
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    "+Version)
	assert.Contains(t, out, "Git commit: "+GitCommit)
}

func TestMigrateCommand_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli.db")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_PATH", dbPath)
	t.Setenv("LOG_LEVEL", "error")

	out, err := execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied")

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 4, count)
}

func TestMigrateCommand_DownRequiresPostgres(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("LOG_LEVEL", "error")

	_, err := execute(t, "migrate", "--down", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}

func TestServeCommand_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := execute(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestApplyLogFlags(t *testing.T) {
	t.Cleanup(func() { logLevel, logFormat = "", "" })

	cfg := config.LoggingConfig{Level: "info", Format: "json"}
	logLevel = "debug"
	applyLogFlags(&cfg)

	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
}
