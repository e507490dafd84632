// Package workbook renders attendance reports as .xlsx files.
package workbook

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/builder-tracking/internal/common"
	"github.com/Veraticus/builder-tracking/internal/model"
	"github.com/Veraticus/builder-tracking/internal/report"
)

const defaultSheet = "Sheet1"

// Filename returns the suggested file name for a report.
func Filename(r *model.Report) string {
	return fmt.Sprintf("attendance_%s_%s.xlsx", r.Range.Start, r.Range.End)
}

// Write renders the daily and builder tables of r into a new workbook.
func Write(r *model.Report) (*bytes.Buffer, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil report", common.ErrExportFailed)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: header style: %w", common.ErrExportFailed, err)
	}

	for i, table := range report.Tables(r) {
		idx, err := f.NewSheet(table.Title)
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %s: %w", common.ErrExportFailed, table.Title, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		if err := writeTable(f, table, headerStyle); err != nil {
			return nil, fmt.Errorf("%w: sheet %s: %w", common.ErrExportFailed, table.Title, err)
		}
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrExportFailed, err)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		slog.Error("Failed to write workbook", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrExportFailed, err)
	}

	return buf, nil
}

func writeTable(f *excelize.File, t report.Table, headerStyle int) error {
	for r, row := range t.Values() {
		start, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.Title, start, &row); err != nil {
			return err
		}
	}

	last, err := excelize.ColumnNumberToName(len(t.Header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(t.Title, "A1", last+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(t.Title, "A", last, 12); err != nil {
		return err
	}

	return f.SetPanes(t.Title, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
