package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dubz-banking/dubz/internal/domain/report"
	"github.com/dubz-banking/dubz/internal/scheduler"
)

func newListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the report triggers and their next run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := c.initLogger(cmd.ErrOrStderr(), "")
			if err != nil {
				return err
			}
			clock, err := c.clock()
			if err != nil {
				return err
			}
			reg := scheduler.NewRegistry(clock)
			if err := c.service(clock, log).RegisterTriggers(reg, c.cfg.Scheduler.Triggers); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TRIGGER\tRULE\tNEXT RUN\tREPORT")
			for _, t := range reg.Snapshot() {
				rt, _ := report.ParseType(strings.TrimSuffix(t.Name, "_report"))
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Name, t.Rule, t.NextRun.Format(time.RFC3339), rt.Description())
			}
			return w.Flush()
		},
	}
}
