package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dubz-banking/dubz/internal/adapters/repository"
	service "github.com/dubz-banking/dubz/internal/app"
	"github.com/dubz-banking/dubz/internal/config"
	"github.com/dubz-banking/dubz/internal/scheduler"
	"github.com/dubz-banking/dubz/pkg/logger"
)

// cli carries state shared by the subcommands.
type cli struct {
	configPath string
	reportsDir string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "scheduler",
		Short:        "Generate Dubz Banking financial reports on a schedule",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to a YAML config file (overrides DUBZ_CONFIG)")
	root.PersistentFlags().StringVar(&c.reportsDir, "reports-dir", "", "directory reports are written to")

	run := newRunCmd(c)
	root.RunE = run.RunE
	root.Flags().AddFlagSet(run.Flags())
	root.AddCommand(run, newGenerateCmd(c), newListCmd(c))
	return root
}

func (c *cli) load(cmd *cobra.Command) error {
	_ = godotenv.Load()

	if c.configPath != "" {
		if err := os.Setenv(config.EnvConfigFile, c.configPath); err != nil {
			return err
		}
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if c.reportsDir != "" {
		cfg.Scheduler.ReportsDir = c.reportsDir
	}
	c.cfg = cfg
	return nil
}

// initLogger configures the global logger; logFile may be empty.
func (c *cli) initLogger(console io.Writer, logFile string) (logger.Logger, error) {
	opts := []logger.Option{logger.WithOutput(console)}
	if logFile != "" {
		opts = append(opts, logger.WithFile(logFile))
	}
	if err := logger.Init(opts...); err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}
	if err := logger.SetLevelString(c.cfg.LogLevel); err != nil {
		return nil, err
	}
	return logger.Get(), nil
}

// clock returns the system clock in the configured timezone.
func (c *cli) clock() (scheduler.Clock, error) {
	loc, err := c.cfg.Scheduler.Location()
	if err != nil {
		return nil, err
	}
	return scheduler.SystemClock{Location: loc}, nil
}

func (c *cli) service(clock scheduler.Clock, log logger.Logger) *service.Service {
	store := repository.NewFileStore(c.cfg.Scheduler.ReportsDir,
		repository.WithClock(clock),
		repository.WithLocation(clock.Now().Location()),
		repository.WithLogger(log.Named("repository")),
	)
	return service.New(
		service.WithStore(store),
		service.WithClock(clock),
		service.WithLogger(log.Named("reports")),
	)
}
