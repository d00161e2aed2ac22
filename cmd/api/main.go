// Command api serves the Dubz Banking liveness API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dubz-banking/dubz/internal/adapters/http/api"
	"github.com/dubz-banking/dubz/internal/adapters/http/serve"
	"github.com/dubz-banking/dubz/internal/config"
	"github.com/dubz-banking/dubz/pkg/logger"
	"github.com/dubz-banking/dubz/pkg/metrics"
)

func main() {
	_ = godotenv.Load()

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		os.Stderr.WriteString("api: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}
	log := logger.Named("api")

	go metrics.StartSystemUpdater(ctx)

	srv := api.NewServer(
		api.WithAllowedOrigins(cfg.API.AllowedOrigins),
		api.WithLogger(log),
	)
	log.Info(ctx, "dubz banking api starting",
		logger.String("addr", cfg.API.Addr),
		logger.Any("allowed_origins", cfg.API.AllowedOrigins))

	return serve.Run(ctx, cfg.API.Addr, srv.Handler(ctx), cfg.API.ShutdownTimeout, log)
}
