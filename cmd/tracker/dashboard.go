package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Veraticus/builder-tracking/internal/model"
	"github.com/Veraticus/builder-tracking/internal/tui"
)

func dashboardCmd() *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Browse attendance in an interactive terminal view",
		Long: `Open a full-screen view with the daily and builder tables.
Press tab to switch tables, r to reload and q to quit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			// Resolve once per load so "today" follows the clock on reload, and
			// drop cached rows so check-ins from other processes show up.
			loader := func(ctx context.Context) (*model.Report, error) {
				a.engine.Refresh()
				return flags.load(ctx, a)
			}

			return tui.Run(ctx, loader, tui.WithTitle("Builder attendance"))
		},
	}

	flags.register(cmd)

	return cmd
}
