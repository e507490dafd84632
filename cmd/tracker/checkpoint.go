package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/builder-tracking/internal/cli"
	"github.com/Veraticus/builder-tracking/internal/storage"
)

func checkpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Manage database checkpoints",
		Long: `Create, list, restore, and delete database checkpoints.

Checkpoints save the current state of the database before risky changes.
Imports and corrections take one automatically.`,
		Example: `  # Snapshot before editing the calendar
  tracker checkpoint create --tag pre-calendar-edit

  # List all checkpoints
  tracker checkpoint list

  # Roll back
  tracker checkpoint restore pre-calendar-edit`,
	}

	cmd.AddCommand(createCheckpointCmd())
	cmd.AddCommand(listCheckpointsCmd())
	cmd.AddCommand(restoreCheckpointCmd())
	cmd.AddCommand(deleteCheckpointCmd())

	return cmd
}

// openCheckpoints opens storage and its checkpoint manager. Callers close the store.
func openCheckpoints(cmd *cobra.Command) (*storage.SQLiteStorage, *storage.CheckpointManager, error) {
	store, err := initStorage(cmd.Context())
	if err != nil {
		return nil, nil, err
	}

	manager, err := store.NewCheckpointManager()
	if err != nil {
		_ = store.Close()
		if errors.Is(err, storage.ErrInMemoryDatabase) {
			return nil, nil, fmt.Errorf("checkpoints need an on-disk database: %w", err)
		}
		return nil, nil, fmt.Errorf("failed to create checkpoint manager: %w", err)
	}

	return store, manager, nil
}

func findCheckpoint(cmd *cobra.Command, manager *storage.CheckpointManager, id string) (*storage.CheckpointInfo, error) {
	checkpoints, err := manager.List(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}
	for i := range checkpoints {
		if checkpoints[i].ID == id {
			return &checkpoints[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", storage.ErrCheckpointNotFound, id)
}

func createCheckpointCmd() *cobra.Command {
	var tag, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new checkpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, manager, err := openCheckpoints(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			info, err := manager.Create(cmd.Context(), tag, description)
			if err != nil {
				return fmt.Errorf("failed to create checkpoint: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Created checkpoint %s (%s)\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(info.ID),
				formatFileSize(info.FileSize))
			if info.Description != "" {
				fmt.Fprintf(out, "  Description: %s\n", info.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "checkpoint name (generated if empty)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description of the checkpoint")

	return cmd
}

func listCheckpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all checkpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, manager, err := openCheckpoints(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			checkpoints, err := manager.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list checkpoints: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(checkpoints) == 0 {
				fmt.Fprintln(out, cli.SubtleStyle.Render("No checkpoints found."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, strings.Join([]string{
				cli.TableHeaderStyle.Render("NAME"),
				cli.TableHeaderStyle.Render("CREATED"),
				cli.TableHeaderStyle.Render("SIZE"),
				cli.TableHeaderStyle.Render("BUILDERS"),
				cli.TableHeaderStyle.Render("ROWS"),
				cli.TableHeaderStyle.Render("EXCEPTIONS"),
				cli.TableHeaderStyle.Render("TYPE"),
			}, "\t"))

			now := time.Now()
			for _, cp := range checkpoints {
				typeLabel := "manual"
				if cp.IsAuto {
					typeLabel = "auto"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
					cli.InfoStyle.Render(cp.ID),
					formatRelativeTime(cp.CreatedAt, now),
					formatFileSize(cp.FileSize),
					cp.Builders,
					cp.Attendance,
					cp.Exceptions,
					cli.SubtleStyle.Render(typeLabel))
			}

			return w.Flush()
		},
	}
}

func restoreCheckpointCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <checkpoint-id>",
		Short: "Restore the database from a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			store, manager, err := openCheckpoints(cmd)
			if err != nil {
				return err
			}
			// Restore closes the connection itself; a second Close is harmless.
			defer func() { _ = store.Close() }()

			info, err := findCheckpoint(cmd, manager, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !force {
				fmt.Fprintf(out, "%s This will replace your current database with checkpoint %s.\n",
					cli.WarningStyle.Render(cli.WarningIcon),
					cli.InfoStyle.Render(id))
				fmt.Fprintf(out, "  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
				if info.Description != "" {
					fmt.Fprintf(out, "  Description: %s\n", info.Description)
				}

				ok, err := cli.NewPrompter(cmd.InOrStdin(), out).Confirm(ctx, "Continue?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, cli.SubtleStyle.Render("Restore cancelled."))
					return nil
				}
			}

			if err := manager.Restore(ctx, id); err != nil {
				return fmt.Errorf("failed to restore checkpoint: %w", err)
			}

			fmt.Fprintf(out, "%s Restored from checkpoint %s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(id))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}

func deleteCheckpointCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <checkpoint-id>",
		Short: "Delete a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			store, manager, err := openCheckpoints(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			info, err := findCheckpoint(cmd, manager, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !force {
				fmt.Fprintf(out, "%s This will permanently delete checkpoint %s.\n",
					cli.WarningStyle.Render(cli.WarningIcon),
					cli.InfoStyle.Render(id))
				fmt.Fprintf(out, "  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "  Size: %s\n", formatFileSize(info.FileSize))

				ok, err := cli.NewPrompter(cmd.InOrStdin(), out).Confirm(ctx, "Continue?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, cli.SubtleStyle.Render("Deletion cancelled."))
					return nil
				}
			}

			if err := manager.Delete(ctx, id); err != nil {
				return fmt.Errorf("failed to delete checkpoint: %w", err)
			}

			fmt.Fprintf(out, "%s Deleted checkpoint %s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(id))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}
