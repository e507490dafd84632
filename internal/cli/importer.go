package cli

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/builder-tracking/internal/model"
)

// Import columns. builder_id, date and status are required.
const (
	ColBuilderID    = "builder_id"
	ColDate         = "date"
	ColStatus       = "status"
	ColTimeRecorded = "time_recorded"
	ColExcuseReason = "excuse_reason"
)

const defaultImportBatch = 200

var (
	// ErrMissingColumn is returned when the CSV header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrEmptyImport is returned when the CSV has a header but no rows.
	ErrEmptyImport = errors.New("no attendance rows to import")
	// ErrInvalidTimestamp is returned for time_recorded values that are not RFC 3339.
	ErrInvalidTimestamp = errors.New("invalid time_recorded")
	// ErrMissingBuilder is returned for rows with an empty builder_id.
	ErrMissingBuilder = errors.New("missing builder_id")
)

// RowError reports the 1-based CSV line a parse failure happened on.
type RowError struct {
	Err error
	Row int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// RecordSaver persists imported records.
type RecordSaver interface {
	SaveRecords(ctx context.Context, records []model.AttendanceRecord) error
}

// ImportResult summarizes a finished import.
type ImportResult struct {
	Rows  int
	Saved int
}

// Importer loads attendance CSV files.
type Importer struct {
	saver     RecordSaver
	progress  io.Writer
	batchSize int
}

// NewImporter creates an importer. Progress is drawn to progress; pass nil
// to import silently.
func NewImporter(saver RecordSaver, progress io.Writer) *Importer {
	return &Importer{saver: saver, progress: progress, batchSize: defaultImportBatch}
}

// Import parses every row of r before saving anything, so a malformed file
// stores nothing. Rows are then saved in batches.
func (i *Importer) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	records, err := ParseCSV(r)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Rows: len(records)}
	bar := i.newBar(len(records))

	for start := 0; start < len(records); start += i.batchSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		end := min(start+i.batchSize, len(records))
		if err := i.saver.SaveRecords(ctx, records[start:end]); err != nil {
			return result, fmt.Errorf("failed to save rows %d-%d: %w", start+2, end+1, err)
		}
		result.Saved = end

		if bar != nil {
			if err := bar.Add(end - start); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
	}

	slog.Info("Imported attendance", "rows", result.Rows, "saved", result.Saved)
	return result, nil
}

func (i *Importer) newBar(total int) *progressbar.ProgressBar {
	if i.progress == nil {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(i.progress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing attendance...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(i.progress)
		}),
	)
}

// ParseCSV reads attendance rows. Columns are matched by header name in any
// order; unknown columns are ignored. A builder may appear once per date.
func ParseCSV(r io.Reader) ([]model.AttendanceRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyImport
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for idx, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = idx
	}
	for _, required := range []string{ColBuilderID, ColDate, ColStatus} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	var records []model.AttendanceRecord
	seen := make(map[model.RecordKey]int)
	row := 1

	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, &RowError{Row: row, Err: err}
		}

		rec, err := parseRow(fields, cols)
		if err != nil {
			return nil, &RowError{Row: row, Err: err}
		}
		if first, ok := seen[rec.Key()]; ok {
			return nil, &RowError{Row: row, Err: fmt.Errorf("%w (first seen on row %d)",
				&model.DuplicateRecordError{BuilderID: rec.BuilderID, Date: rec.Date}, first)}
		}
		seen[rec.Key()] = row
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrEmptyImport
	}
	return records, nil
}

func parseRow(fields []string, cols map[string]int) (model.AttendanceRecord, error) {
	get := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[idx])
	}

	rec := model.AttendanceRecord{
		BuilderID:    get(ColBuilderID),
		ExcuseReason: get(ColExcuseReason),
	}
	if rec.BuilderID == "" {
		return rec, ErrMissingBuilder
	}

	date, err := model.ParseDate(get(ColDate))
	if err != nil {
		return rec, err
	}
	rec.Date = date

	status, err := model.ParseRawStatus(get(ColStatus))
	if err != nil {
		var statusErr *model.InvalidStatusError
		if errors.As(err, &statusErr) {
			statusErr.BuilderID = rec.BuilderID
			statusErr.Date = rec.Date
		}
		return rec, err
	}
	rec.RawStatus = status

	if ts := get(ColTimeRecorded); ts != "" {
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return rec, fmt.Errorf("%w %q: %v", ErrInvalidTimestamp, ts, err)
		}
		rec.TimeRecorded = &t
	}

	return rec, nil
}
