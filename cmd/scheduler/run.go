package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dubz-banking/dubz/internal/adapters/http/serve"
	"github.com/dubz-banking/dubz/internal/scheduler"
	"github.com/dubz-banking/dubz/pkg/logger"
	"github.com/dubz-banking/dubz/pkg/metrics"
)

func newRunCmd(c *cli) *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler loop until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if logFile == "" {
				logFile = c.cfg.Scheduler.LogFile
			}
			return c.run(cmd, logFile)
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "log file written next to console output (default scheduler.log)")
	return cmd
}

func (c *cli) run(cmd *cobra.Command, logFile string) error {
	ctx := cmd.Context()
	log, err := c.initLogger(cmd.ErrOrStderr(), logFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	clock, err := c.clock()
	if err != nil {
		return err
	}
	svc := c.service(clock, log)

	reg := scheduler.NewRegistry(clock)
	if err := svc.RegisterTriggers(reg, c.cfg.Scheduler.Triggers); err != nil {
		log.Error(ctx, "register triggers", logger.Error(err))
		return err
	}
	loop := scheduler.NewLoop(reg,
		scheduler.WithPollInterval(c.cfg.Scheduler.PollInterval),
		scheduler.WithLogger(log.Named("scheduler")),
	)

	log.Info(ctx, "report scheduler starting",
		logger.String("reports_dir", c.cfg.Scheduler.ReportsDir),
		logger.String("log_file", logFile))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(gctx) })
	if addr := c.cfg.Scheduler.MetricsAddr; addr != "" {
		r := chi.NewRouter()
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
		g.Go(func() error { return serve.Run(gctx, addr, r, 0, log.Named("metrics")) })
	}
	go metrics.StartSystemUpdater(gctx)

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info(ctx, "report scheduler stopped")
	return nil
}
