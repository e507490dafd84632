package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/builder-tracking/internal/cli"
	"github.com/Veraticus/builder-tracking/internal/model"
)

func buildersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "builders",
		Short: "Manage the builder roster",
		Example: `  # Add a builder
  tracker builders add "Ada Lovelace" --email ada@example.com --cohort spring-2025

  # List active builders
  tracker builders list

  # Stop tracking a builder who left the program
  tracker builders deactivate <builder-id>`,
	}

	cmd.AddCommand(addBuilderCmd())
	cmd.AddCommand(listBuildersCmd())
	cmd.AddCommand(setBuilderActiveCmd("deactivate", false))
	cmd.AddCommand(setBuilderActiveCmd("activate", true))

	return cmd
}

func addBuilderCmd() *cobra.Command {
	var b model.Builder

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a builder to the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			b.Name = args[0]
			b.Active = true
			if err := store.CreateBuilder(ctx, &b); err != nil {
				return fmt.Errorf("failed to add builder: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s (%s)\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				b.Name,
				cli.InfoStyle.Render(b.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&b.ID, "id", "", "builder ID (generated when empty)")
	cmd.Flags().StringVar(&b.Email, "email", "", "builder email")
	cmd.Flags().StringVar(&b.Cohort, "cohort", "", "cohort name")

	return cmd
}

func listBuildersCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List builders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			builders, err := store.ListBuilders(ctx, !all)
			if err != nil {
				return fmt.Errorf("failed to list builders: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(builders) == 0 {
				fmt.Fprintln(out, cli.SubtleStyle.Render("No builders found."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, strings.Join([]string{
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("NAME"),
				cli.TableHeaderStyle.Render("EMAIL"),
				cli.TableHeaderStyle.Render("COHORT"),
				cli.TableHeaderStyle.Render("STATUS"),
			}, "\t"))

			for _, b := range builders {
				status := cli.SuccessStyle.Render("active")
				if !b.Active {
					status = cli.SubtleStyle.Render("inactive")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					cli.InfoStyle.Render(b.ID), b.Name, b.Email, b.Cohort, status)
			}

			return w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include inactive builders")

	return cmd
}

func setBuilderActiveCmd(use string, active bool) *cobra.Command {
	short := "Stop tracking a builder"
	if active {
		short = "Resume tracking a builder"
	}

	return &cobra.Command{
		Use:   use + " <builder-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SetBuilderActive(ctx, args[0], active); err != nil {
				return fmt.Errorf("failed to %s builder: %w", use, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Builder %s %sd", args[0], use)))
			return nil
		},
	}
}
