package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/msomdec/eventhub/internal/config"
	"github.com/msomdec/eventhub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	store, err := repository.Open(ctx, config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "open.db"),
	})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Migrate(ctx))
	assert.NoError(t, store.Ping(ctx))

	events, err := store.Events().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := repository.Open(context.Background(), config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
