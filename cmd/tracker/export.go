package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/builder-tracking/internal/cli"
	"github.com/Veraticus/builder-tracking/internal/common"
	"github.com/Veraticus/builder-tracking/internal/config"
	"github.com/Veraticus/builder-tracking/internal/model"
	"github.com/Veraticus/builder-tracking/internal/service"
	"github.com/Veraticus/builder-tracking/internal/sheets"
	"github.com/Veraticus/builder-tracking/internal/workbook"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export attendance reports",
		Long: `Export the daily and builder tables to Google Sheets or an Excel workbook.
Both destinations get one tab per table.`,
		Example: `  # Refresh the shared spreadsheet
  tracker export sheets

  # Write April to a workbook
  tracker export xlsx --from 2025-04-01 --to 2025-04-30 -o april.xlsx`,
	}

	cmd.AddCommand(exportSheetsCmd())
	cmd.AddCommand(exportXLSXCmd())

	return cmd
}

func exportSheetsCmd() *cobra.Command {
	var (
		flags         reportFlags
		spreadsheetID string
	)

	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Write the report to Google Sheets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.LoadSheetsConfig()
			if err != nil {
				return common.NewUserError("Google Sheets is not configured. Run 'tracker auth sheets' or set sheets.service_account_path.", err)
			}
			if spreadsheetID != "" {
				cfg.SpreadsheetID = spreadsheetID
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			r, err := flags.load(ctx, a)
			if err != nil {
				return err
			}

			writer, err := sheets.NewWriter(ctx, *cfg, slog.Default())
			if err != nil {
				return fmt.Errorf("failed to create sheets writer: %w", err)
			}

			if err := exportTo(cmd, writer, r); err != nil {
				common.LogError(err, "Sheets export failed", common.Fields{
					"range":          r.Range.String(),
					"spreadsheet_id": cfg.SpreadsheetID,
				})
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %s to Google Sheets", r.Range)))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&spreadsheetID, "spreadsheet-id", "", "spreadsheet to update (default: sheets.spreadsheet_id)")

	return cmd
}

func exportTo(cmd *cobra.Command, w service.ReportWriter, r *model.Report) error {
	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Export")
	ctx := handler.HandleInterrupts(cmd.Context(), "")
	defer handler.Stop()

	return w.Write(ctx, r)
}

func exportXLSXCmd() *cobra.Command {
	var (
		flags  reportFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Write the report to an Excel workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			buf, err := workbook.Write(r)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = workbook.Filename(r)
			}
			path = config.ExpandPath(path)
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0750); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}
			if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
				return fmt.Errorf("failed to write workbook: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Wrote %s (%s)", path, formatFileSize(int64(buf.Len())))))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: attendance_<from>_<to>.xlsx)")

	return cmd
}
