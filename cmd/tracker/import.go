package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/builder-tracking/internal/cli"
	"github.com/Veraticus/builder-tracking/internal/common"
	"github.com/Veraticus/builder-tracking/internal/storage"
)

func importCmd() *cobra.Command {
	var (
		noCheckpoint bool
		quiet        bool
	)

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import attendance rows from CSV",
		Long: `Import attendance rows from a CSV file with a header row. Required columns
are builder_id, date and status; time_recorded (RFC3339) and excuse_reason
are optional. Rows replace any stored row for the same builder and date.

The whole file is validated before anything is saved. Use "-" to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0]) // #nosec G304
				if err != nil {
					return fmt.Errorf("failed to open import file: %w", err)
				}
				defer func() { _ = f.Close() }()
				in = f
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if !noCheckpoint {
				if err := autoCheckpoint(cmd, a.store, "import"); err != nil {
					return err
				}
			}

			handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Import")
			ctx = handler.HandleInterrupts(ctx, "Batches saved before the interrupt were kept.")
			defer handler.Stop()

			var progress io.Writer
			if !quiet {
				progress = cmd.ErrOrStderr()
			}

			result, err := cli.NewImporter(a.engine, progress).Import(ctx, in)
			if err != nil {
				if handler.WasInterrupted() {
					return fmt.Errorf("import interrupted after %d of %d rows", result.Saved, result.Rows)
				}
				var rowErr *cli.RowError
				if errors.As(err, &rowErr) {
					return fmt.Errorf("nothing imported: %w", err)
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Imported %d attendance rows", result.Saved)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCheckpoint, "no-checkpoint", false, "skip the automatic checkpoint before importing")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "hide the progress bar")

	return cmd
}

// autoCheckpoint snapshots an on-disk database before a bulk write.
func autoCheckpoint(cmd *cobra.Command, store *storage.SQLiteStorage, command string) error {
	manager, err := store.NewCheckpointManager()
	if errors.Is(err, storage.ErrInMemoryDatabase) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create checkpoint manager: %w", err)
	}

	id, err := manager.AutoCheckpoint(cmd.Context(), command)
	if err != nil {
		return err
	}
	common.LogInfo("Created checkpoint", common.Fields{"checkpoint": id, "command": command})
	return nil
}
