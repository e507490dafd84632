package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/builder-tracking/internal/calendar"
	"github.com/Veraticus/builder-tracking/internal/cli"
	"github.com/Veraticus/builder-tracking/internal/model"
)

func calendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Inspect and edit the class calendar",
		Example: `  # Is there class today?
  tracker calendar check

  # Publish a holiday
  tracker calendar holiday 2025-05-26 --reason "Memorial Day"

  # Cancel a session, then undo it
  tracker calendar cancel 2025-04-06 --reason "Instructor out"
  tracker calendar cancel 2025-04-06 --remove`,
	}

	cmd.AddCommand(calendarCheckCmd())
	cmd.AddCommand(calendarListCmd())
	cmd.AddCommand(calendarExceptionCmd("holiday", model.ExceptionHoliday))
	cmd.AddCommand(calendarExceptionCmd("cancel", model.ExceptionCancelled))

	return cmd
}

func calendarCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [date]",
		Short: "Report whether a date is a class day",
		Args:  cobra.MaximumNArgs(1),
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

			info, err := a.engine.DescribeDay(ctx, day)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case info.IsClassDay:
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s (%s) is a class day", info.Date, info.Label)))
			case info.IsCancelled:
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%s (%s) is a cancelled class day", info.Date, info.Label)))
			default:
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%s (%s) is not a class day: %s", info.Date, info.Label, describeReason(info.Reason))))
			}
			return nil
		},
	}
}

func calendarListCmd() *cobra.Command {
	var (
		rf         rangeFlags
		exceptions bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List class days or stored exceptions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

			if exceptions {
				stored, err := a.store.ListCalendarExceptions(ctx)
				if err != nil {
					return err
				}
				if len(stored) == 0 {
					fmt.Fprintln(out, cli.SubtleStyle.Render("No holidays or cancellations stored."))
					return nil
				}
				fmt.Fprintln(w, strings.Join([]string{
					cli.TableHeaderStyle.Render("DATE"),
					cli.TableHeaderStyle.Render("DAY"),
					cli.TableHeaderStyle.Render("KIND"),
					cli.TableHeaderStyle.Render("REASON"),
				}, "\t"))
				for _, ex := range stored {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ex.Date, calendar.Label(ex.Date), ex.Kind, ex.Reason)
				}
				return w.Flush()
			}

			r, err := rf.resolve(ctx, a.engine)
			if err != nil {
				return err
			}
			oracle, err := a.engine.Oracle(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(w, strings.Join([]string{
				cli.TableHeaderStyle.Render("DATE"),
				cli.TableHeaderStyle.Render("DAY"),
				cli.TableHeaderStyle.Render("STATUS"),
			}, "\t"))
			for _, d := range r.Days() {
				info := oracle.Describe(d)
				if info.Reason == calendar.ReasonBeforeStart || info.Reason == calendar.ReasonNonClassWeekday {
					continue
				}
				status := cli.SuccessStyle.Render("class")
				if !info.IsClassDay {
					status = cli.WarningStyle.Render(describeReason(info.Reason))
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", info.Date, info.Label, status)
			}
			return w.Flush()
		},
	}

	rf.register(cmd)
	cmd.Flags().BoolVar(&exceptions, "exceptions", false, "list stored holidays and cancellations instead")

	return cmd
}

func calendarExceptionCmd(use string, kind model.ExceptionKind) *cobra.Command {
	var (
		reason string
		remove bool
	)

	cmd := &cobra.Command{
		Use:   use + " <date>",
		Short: fmt.Sprintf("Mark a date as %s", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			date, err := model.ParseDate(args[0])
			if err != nil {
				return err
			}

			if remove {
				if err := store.DeleteCalendarException(ctx, date); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Removed exception on %s", date)))
				return nil
			}

			if err := store.SaveCalendarException(ctx, &model.CalendarException{
				Date:   date,
				Kind:   kind,
				Reason: reason,
			}); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s (%s) marked %s", date, calendar.Label(date), kind)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "note shown in calendar listings")
	cmd.Flags().BoolVar(&remove, "remove", false, "remove the stored exception for the date")

	return cmd
}

func describeReason(r calendar.Reason) string {
	switch r {
	case calendar.ReasonBeforeStart:
		return "before the program started"
	case calendar.ReasonNonClassWeekday:
		return "no class on this weekday"
	case calendar.ReasonHoliday:
		return "holiday"
	case calendar.ReasonCancelled:
		return "cancelled"
	}
	return string(r)
}
