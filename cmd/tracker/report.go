package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/builder-tracking/internal/aggregate"
	"github.com/Veraticus/builder-tracking/internal/cli"
	"github.com/Veraticus/builder-tracking/internal/model"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// reportFlags select the range and builders a report covers.
type reportFlags struct {
	rangeFlags
	builders []string
}

func (f *reportFlags) register(cmd *cobra.Command) {
	f.rangeFlags.register(cmd)
	cmd.Flags().StringSliceVarP(&f.builders, "builder", "b", nil, "limit to these builder IDs (repeatable)")
}

// load resolves the flags and builds the report they describe.
func (f *reportFlags) load(ctx context.Context, a *app) (*model.Report, error) {
	r, err := f.resolve(ctx, a.engine)
	if err != nil {
		return nil, err
	}
	return buildReport(ctx, a, r, f.builders)
}

// buildReport covers every active builder when builderIDs is empty.
func buildReport(ctx context.Context, a *app, r model.DateRange, builderIDs []string) (*model.Report, error) {
	if len(builderIDs) == 0 {
		return a.engine.Report(ctx, r)
	}

	names := make(map[string]string, len(builderIDs))
	for _, id := range builderIDs {
		b, err := a.store.GetBuilder(ctx, id)
		if err != nil {
			return nil, explainAttendanceError(err)
		}
		names[id] = b.Name
	}

	daily, err := a.engine.DailyReport(ctx, r, builderIDs)
	if err != nil {
		return nil, err
	}
	byBuilder, err := a.engine.BuilderReport(ctx, r, builderIDs)
	if err != nil {
		return nil, err
	}

	return &model.Report{
		Range:    r,
		Daily:    daily,
		Builders: aggregate.Ranked(byBuilder),
		Totals:   aggregate.Totals(daily),
		Names:    names,
	}, nil
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show attendance reports",
		Long: `Show attendance for a date range. The range defaults to the program start
through today; days outside the class calendar are never counted.`,
		Example: `  # Daily counts for April
  tracker report daily --from 2025-04-01 --to 2025-04-30

  # Builder rates as JSON
  tracker report builders --format json`,
	}

	cmd.AddCommand(reportSubCmd("daily", "Per-day present, late, absent and excused counts", renderDaily))
	cmd.AddCommand(reportSubCmd("builders", "Per-builder attendance rates", renderBuilders))

	return cmd
}

func reportSubCmd(use, short string, render func(io.Writer, *model.Report, string) error) *cobra.Command {
	var (
		flags  reportFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != formatTable && format != formatJSON {
				return fmt.Errorf("unsupported format %q (use %s or %s)", format, formatTable, formatJSON)
			}

			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			r, err := flags.load(ctx, a)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), r, format)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format (table, json)")

	return cmd
}

func renderDaily(w io.Writer, r *model.Report, format string) error {
	if format == formatJSON {
		return writeJSON(w, struct {
			Range  model.DateRange        `json:"range"`
			Daily  []model.DailyAggregate `json:"daily"`
			Totals model.DailyAggregate   `json:"totals"`
		}{r.Range, nonNil(r.Daily), r.Totals})
	}
	return cli.RenderDaily(w, r)
}

// builderRow adds the display name to a builder aggregate in JSON output.
type builderRow struct {
	model.BuilderAggregate
	Name string `json:"name,omitempty"`
}

func renderBuilders(w io.Writer, r *model.Report, format string) error {
	if format == formatJSON {
		rows := make([]builderRow, len(r.Builders))
		for i, b := range r.Builders {
			rows[i] = builderRow{BuilderAggregate: b, Name: r.Names[b.BuilderID]}
		}
		return writeJSON(w, struct {
			Range    model.DateRange `json:"range"`
			Builders []builderRow    `json:"builders"`
		}{r.Range, rows})
	}
	return cli.RenderBuilders(w, r)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
