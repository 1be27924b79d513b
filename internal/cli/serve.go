package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/eventhub/internal/config"
	"github.com/msomdec/eventhub/internal/handler"
	"github.com/msomdec/eventhub/internal/metrics"
	"github.com/msomdec/eventhub/internal/repository"
	"github.com/msomdec/eventhub/internal/service"
	"github.com/spf13/cobra"
)

var (
	// Server flags (override env)
	serverHost string
	serverPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server.

The server opens the configured database, applies pending migrations, and
serves requests until SIGINT or SIGTERM, then drains in-flight requests.

Examples:
  eventhub serve
  eventhub serve --port 9090 --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: 8080)")
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}
	applyLogFlags(&cfg.Logging)

	logger := config.NewLogger(cfg.Logging)
	metrics.Init(Version, GitCommit)
	logger.Info().Str("version", Version).Str("environment", cfg.Environment).Msg("starting eventhub")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	store, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("database migrations applied")

	authService := service.NewAuthService(store.Users(), store.Tokens(), cfg.Auth.JWTSecret, cfg.Auth.BcryptCost, logger)
	eventService := service.NewEventService(store.Events(), store.Registrations(), logger)

	var limiter *service.TokenBucket
	if cfg.RateLimit.AuthPerMinute > 0 {
		limiter = service.NewTokenBucket(float64(cfg.RateLimit.AuthPerMinute)/60, cfg.RateLimit.AuthBurst)
		defer limiter.Stop()
	}

	srv := &http.Server{
		Addr: cfg.Server.Addr(),
		Handler: handler.NewRouter(handler.Dependencies{
			Auth:           authService,
			Events:         eventService,
			Store:          store,
			Limiter:        limiter,
			Logger:         logger,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			RequireHTTPS:   cfg.IsProduction(),
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
