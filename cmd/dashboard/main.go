// Command dashboard serves the Dubz Banking dashboard shell.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dubz-banking/dubz/internal/adapters/http/dashboard"
	"github.com/dubz-banking/dubz/internal/adapters/http/serve"
	"github.com/dubz-banking/dubz/internal/config"
	"github.com/dubz-banking/dubz/pkg/logger"
	"github.com/dubz-banking/dubz/pkg/metrics"
)

func main() {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		os.Stderr.WriteString("dashboard: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}
	log := logger.Named("dashboard")

	go metrics.StartSystemUpdater(ctx)

	checker := dashboard.NewHTTPHealthChecker(cfg.Dashboard.APIBaseURL, cfg.Dashboard.HealthTimeout)
	h := dashboard.NewHandler(checker, dashboard.WithLogger(log))
	log.Info(ctx, "dubz banking dashboard starting",
		logger.String("addr", cfg.Dashboard.Addr),
		logger.String("api_health_url", checker.URL()))

	return serve.Run(ctx, cfg.Dashboard.Addr, h.Routes(ctx), cfg.Dashboard.ShutdownTimeout, log)
}
