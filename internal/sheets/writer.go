package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Veraticus/builder-tracking/internal/common"
	"github.com/Veraticus/builder-tracking/internal/model"
	"github.com/Veraticus/builder-tracking/internal/report"
	"github.com/Veraticus/builder-tracking/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer implements service.ReportWriter for Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}, nil
}

// Write replaces the contents of the Daily and Builders tabs with the report.
func (w *Writer) Write(ctx context.Context, rpt *model.Report) error {
	if rpt == nil {
		return fmt.Errorf("%w: nil report", common.ErrExportFailed)
	}

	w.logger.Info("Starting sheets export",
		"range", rpt.Range.String(),
		"days", len(rpt.Daily),
		"builders", len(rpt.Builders))

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	var spreadsheetID string
	err := common.WithRetry(ctx, func(ctx context.Context) error {
		id, err := w.getOrCreateSpreadsheet(ctx)
		if err != nil {
			return classifyAPIError(err)
		}
		spreadsheetID = id
		return nil
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("%w: failed to get spreadsheet: %w", common.ErrExportFailed, err)
	}

	sheetIDs, err := w.ensureTabs(ctx, spreadsheetID)
	if err != nil {
		return fmt.Errorf("%w: failed to prepare tabs: %w", common.ErrExportFailed, err)
	}

	rows := 0
	for _, table := range report.Tables(rpt) {
		values := table.Values()
		err := common.WithRetry(ctx, func(ctx context.Context) error {
			if err := w.clearTab(ctx, spreadsheetID, table.Title); err != nil {
				return classifyAPIError(err)
			}
			return classifyAPIError(w.writeData(ctx, spreadsheetID, table.Title, values))
		}, retryOpts)
		if err != nil {
			return fmt.Errorf("%w: failed to write %s: %w", common.ErrExportFailed, table.Title, err)
		}
		rows += len(values)
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func(ctx context.Context) error {
			return classifyAPIError(w.applyFormatting(ctx, spreadsheetID, sheetIDs))
		}, retryOpts)
		if err != nil {
			// Data is already written; formatting is cosmetic.
			w.logger.Warn("Failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("Sheets export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", rows)

	return nil
}

func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath) // #nosec G304
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		tokenSource = client.TokenSource(ctx, &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		})
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: report.DailyTitle}},
			{Properties: &sheets.SheetProperties{Title: report.BuildersTitle}},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("Created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	// Later exports reuse the spreadsheet instead of creating another one.
	w.config.SpreadsheetID = created.SpreadsheetId
	return created.SpreadsheetId, nil
}

// ensureTabs adds any missing report tabs and returns the sheet ID of each.
func (w *Writer) ensureTabs(ctx context.Context, spreadsheetID string) (map[string]int64, error) {
	ss, err := w.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	ids := existingTabs(ss)
	missing := missingTabs(ids, report.DailyTitle, report.BuildersTitle)
	if len(missing) == 0 {
		return ids, nil
	}

	requests := make([]*sheets.Request, 0, len(missing))
	for _, title := range missing {
		requests = append(requests, &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		})
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	for _, reply := range resp.Replies {
		if reply.AddSheet != nil && reply.AddSheet.Properties != nil {
			ids[reply.AddSheet.Properties.Title] = reply.AddSheet.Properties.SheetId
		}
	}
	return ids, nil
}

func existingTabs(ss *sheets.Spreadsheet) map[string]int64 {
	ids := make(map[string]int64, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			ids[s.Properties.Title] = s.Properties.SheetId
		}
	}
	return ids
}

func missingTabs(ids map[string]int64, titles ...string) []string {
	var missing []string
	for _, title := range titles {
		if _, ok := ids[title]; !ok {
			missing = append(missing, title)
		}
	}
	return missing
}

func (w *Writer) clearTab(ctx context.Context, spreadsheetID, title string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, tabRange(title, "A:Z"), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// writeData writes values in batches of config.BatchSize rows.
func (w *Writer) writeData(ctx context.Context, spreadsheetID, title string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))
		batch := values[i:end]

		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, tabRange(title, fmt.Sprintf("A%d", i+1)), &sheets.ValueRange{
			Values: batch,
		}).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("Wrote batch", "tab", title, "start_row", i+1, "rows", len(batch))
	}

	return nil
}

func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, sheetIDs map[string]int64) error {
	requests := formattingRequests(sheetIDs)
	if len(requests) == 0 {
		return nil
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}

// formattingRequests bolds and freezes the header row of every report tab
// and auto-sizes its columns.
func formattingRequests(sheetIDs map[string]int64) []*sheets.Request {
	var requests []*sheets.Request
	for _, title := range []string{report.DailyTitle, report.BuildersTitle} {
		id, ok := sheetIDs[title]
		if !ok {
			continue
		}
		requests = append(requests,
			&sheets.Request{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:       id,
						StartRowIndex: 0,
						EndRowIndex:   1,
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							TextFormat: &sheets.TextFormat{Bold: true},
						},
					},
					Fields: "userEnteredFormat.textFormat",
				},
			},
			&sheets.Request{
				UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
					Properties: &sheets.SheetProperties{
						SheetId:        id,
						GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
					},
					Fields: "gridProperties.frozenRowCount",
				},
			},
			&sheets.Request{
				AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
					Dimensions: &sheets.DimensionRange{
						SheetId:    id,
						Dimension:  "COLUMNS",
						StartIndex: 0,
						EndIndex:   10,
					},
				},
			},
		)
	}
	return requests
}

func tabRange(title, cells string) string {
	return fmt.Sprintf("'%s'!%s", title, cells)
}

// classifyAPIError marks Google API errors as retryable or not so WithRetry
// stops early on client errors.
func classifyAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code >= 500:
		return &common.RetryableError{Err: err, Retryable: true}
	default:
		return &common.RetryableError{Err: err, Retryable: false}
	}
}

var _ service.ReportWriter = (*Writer)(nil)
