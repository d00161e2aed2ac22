package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dubz-banking/dubz/internal/domain/report"
	"github.com/dubz-banking/dubz/pkg/logger"
)

func newGenerateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "generate [weekly|monthly|quarterly|yearly]...",
		Short:     "Generate reports once and exit (all types when none are given)",
		ValidArgs: []string{"weekly", "monthly", "quarterly", "yearly"},
		RunE: func(cmd *cobra.Command, args []string) error {
			types := report.Types()
			if len(args) > 0 {
				types = types[:0:0]
				for _, a := range args {
					t, err := report.ParseType(a)
					if err != nil {
						return err
					}
					types = append(types, t)
				}
			}
			return c.generate(cmd, types)
		},
	}
}

func (c *cli) generate(cmd *cobra.Command, types []report.Type) error {
	log, err := c.initLogger(cmd.ErrOrStderr(), "")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	clock, err := c.clock()
	if err != nil {
		return err
	}

	var failed int
	for _, res := range c.service(clock, log).GenerateTypes(cmd.Context(), types) {
		if res.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "Failed to generate %s report: %v\n", res.Type, res.Err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated %s report: %s\n", res.Type, res.Path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed", failed, len(types))
	}
	return nil
}
