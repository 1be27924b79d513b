package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/msomdec/eventhub/internal/domain"
	"github.com/msomdec/eventhub/internal/repository/postgres"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// Verify that *postgres.DB implements domain.Store at compile time.
var _ domain.Store = (*postgres.DB)(nil)

var (
	containerOnce sync.Once
	container     *tcpostgres.PostgresContainer
	containerURL  string
	containerErr  error
)

func TestMain(m *testing.M) {
	code := m.Run()
	if container != nil {
		_ = testcontainers.TerminateContainer(container)
	}
	os.Exit(code)
}

// newTestDB returns a migrated, empty database backed by a shared Postgres
// container. Tests are skipped under -short or when Docker is unavailable.
func newTestDB(t *testing.T) *postgres.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres tests in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	containerOnce.Do(func() {
		container, containerErr = tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("eventhub"),
			tcpostgres.WithUsername("eventhub"),
			tcpostgres.WithPassword("eventhub"),
			tcpostgres.BasicWaitStrategies(),
		)
		if containerErr != nil {
			return
		}
		containerURL, containerErr = container.ConnectionString(ctx, "sslmode=disable")
		if containerErr != nil {
			return
		}
		containerErr = postgres.MigrateUp(containerURL)
	})
	require.NoError(t, containerErr)

	db, err := postgres.New(ctx, containerURL, 4)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Pool.Exec(ctx, `TRUNCATE registrations, events, auth_tokens, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return db
}

func TestMigrateIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrate(context.Background()))
	require.NoError(t, db.Migrate(context.Background()))
}
