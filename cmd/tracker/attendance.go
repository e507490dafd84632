package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/builder-tracking/internal/cli"
	"github.com/Veraticus/builder-tracking/internal/common"
	"github.com/Veraticus/builder-tracking/internal/model"
)

func checkinCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "checkin <builder-id>",
		Short: "Record a builder's arrival",
		Long: `Record a check-in for a builder. The class date is the program-zone
date of the check-in time, and the arrival is scored late when it is after
that day's cutoff.`,
		Example: `  tracker checkin 4b1c0d1e
  tracker checkin 4b1c0d1e --at 2025-03-16T10:05:00-04:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			when := time.Now()
			if at != "" {
				if when, err = time.Parse(time.RFC3339, at); err != nil {
					return common.NewUserError("--at must be an RFC3339 timestamp such as 2025-03-16T10:05:00-04:00", err)
				}
			}

			class, err := a.engine.CheckIn(ctx, args[0], when)
			if err != nil {
				return explainAttendanceError(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Checked in %s at %s: %s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(args[0]),
				when.In(a.engine.Location()).Format("2006-01-02 15:04 MST"),
				cli.FormatStatus(model.DisplayStatus(class)))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "check-in time as RFC3339 (default: now)")

	return cmd
}

func excuseCmd() *cobra.Command {
	var (
		date   string
		reason string
	)

	cmd := &cobra.Command{
		Use:   "excuse <builder-id>",
		Short: "Record an excused absence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			day, err := parseDay(a.engine, date)
			if err != nil {
				return err
			}

			if err := a.engine.Excuse(ctx, args[0], day, reason); err != nil {
				return explainAttendanceError(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Excused %s on %s", args[0], day)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "today", "class date (YYYY-MM-DD, today or yesterday)")
	cmd.Flags().StringVarP(&reason, "reason", "r", "", "why the builder is excused (required)")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

func openDayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open-day [date]",
		Short: "Create pending rows for every active builder",
		Long: `Open a class day: every active builder without a row for the date gets a
pending row. Pending rows count as absent until a check-in replaces them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			day, err := parseDay(a.engine, firstArg(args))
			if err != nil {
				return err
			}

			created, err := a.engine.OpenDay(ctx, day)
			if err != nil {
				return explainAttendanceError(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Opened %s: %d pending rows created", day, created)))
			return nil
		},
	}
}

func correctCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "correct <date>",
		Short: "Mark a past day's pending rows absent",
		Long: `Close a class day after the fact: every pending row on the date becomes an
unexcused absence. An automatic checkpoint is taken first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			day, err := parseDay(a.engine, args[0])
			if err != nil {
				return err
			}
			if !day.Before(a.engine.Today()) {
				return common.NewUserError(fmt.Sprintf("%s has not ended yet; only past days can be corrected", day), nil)
			}

			if !yes {
				prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				ok, err := prompter.Confirm(ctx, fmt.Sprintf("Mark every pending row on %s absent?", day))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), cli.SubtleStyle.Render("Correction cancelled."))
					return nil
				}
			}

			marked, err := a.engine.MarkPendingAbsent(ctx, day)
			if err != nil {
				return explainAttendanceError(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Marked %d pending rows absent on %s", marked, day)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")

	return cmd
}

func historyCmd() *cobra.Command {
	var rf rangeFlags

	cmd := &cobra.Command{
		Use:   "history <builder-id>",
		Short: "Show a builder's day-by-day attendance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			r, err := rf.resolve(ctx, a.engine)
			if err != nil {
				return err
			}

			entries, err := a.engine.BuilderHistory(ctx, args[0], r)
			if err != nil {
				return explainAttendanceError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%s, %s", args[0], r)))
			if len(entries) == 0 {
				fmt.Fprintln(out, cli.SubtleStyle.Render("No attendance recorded."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, strings.Join([]string{
				cli.TableHeaderStyle.Render("DATE"),
				cli.TableHeaderStyle.Render("DAY"),
				cli.TableHeaderStyle.Render("STATUS"),
				cli.TableHeaderStyle.Render("ARRIVED"),
				cli.TableHeaderStyle.Render("NOTE"),
			}, "\t"))

			for _, e := range entries {
				arrived := "-"
				if e.TimeRecorded != nil {
					arrived = e.TimeRecorded.In(a.engine.Location()).Format("15:04")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					e.Date, e.Label, cli.FormatStatus(e.Display), arrived, e.Excuse)
			}

			return w.Flush()
		},
	}

	rf.register(cmd)

	return cmd
}

// explainAttendanceError turns rule violations into messages an operator can act on.
func explainAttendanceError(err error) error {
	switch {
	case errors.Is(err, common.ErrNotClassDay):
		return common.NewUserError(err.Error(), err)
	case errors.Is(err, common.ErrNotFound):
		return common.NewUserError("No such builder. Run 'tracker builders list' to see IDs.", err)
	case errors.Is(err, common.ErrInactiveBuilder):
		return common.NewUserError(err.Error()+". Run 'tracker builders activate' first.", err)
	case errors.Is(err, common.ErrMissingReason):
		return common.NewUserError("An excuse needs a reason.", err)
	}
	return err
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
