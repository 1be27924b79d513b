package cli

import (
	"fmt"

	"github.com/msomdec/eventhub/internal/config"
	"github.com/msomdec/eventhub/internal/repository"
	"github.com/msomdec/eventhub/internal/repository/postgres"
	"github.com/spf13/cobra"
)

var migrateDown int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	Long: `Apply all pending schema migrations for the configured database and exit.

With --down N, roll back the last N migrations instead (postgres only).

Examples:
  eventhub migrate
  DATABASE_DRIVER=postgres DATABASE_URL=postgres://... eventhub migrate --down 1`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().IntVar(&migrateDown, "down", 0, "roll back this many migrations (postgres only)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	logCfg := config.LoadLogging()
	applyLogFlags(&logCfg)
	logger := config.NewLogger(logCfg)

	if migrateDown < 0 {
		return fmt.Errorf("--down must not be negative")
	}
	if migrateDown > 0 {
		if dbCfg.Driver != config.DriverPostgres {
			return fmt.Errorf("--down is only supported for the %s driver", config.DriverPostgres)
		}
		if err := postgres.MigrateDown(dbCfg.URL, migrateDown); err != nil {
			return err
		}
		logger.Info().Int("steps", migrateDown).Msg("migrations rolled back")
		return nil
	}

	ctx := logger.WithContext(cmd.Context())
	store, err := repository.Open(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info().Str("driver", dbCfg.Driver).Msg("database migrations applied")
	fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
	return nil
}
