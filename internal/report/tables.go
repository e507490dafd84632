// Package report lays out a model.Report as header+rows tables that the
// terminal, spreadsheet and workbook renderers share.
package report

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/builder-tracking/internal/model"
)

// Table names used as sheet titles.
const (
	DailyTitle    = "Daily"
	BuildersTitle = "Builders"
)

// Table is a titled grid of cells. Numeric cells stay numeric so spreadsheet
// writers can format them.
type Table struct {
	Title  string
	Header []string
	Rows   [][]any
}

// Values returns the header followed by the rows, the shape the Sheets API expects.
func (t Table) Values() [][]any {
	out := make([][]any, 0, len(t.Rows)+1)
	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	out = append(out, header)
	return append(out, t.Rows...)
}

// Strings renders every row as text.
func (t Table) Strings() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = Cell(cell)
		}
		out[i] = cells
	}
	return out
}

// Cell formats a single table cell.
func Cell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case fmt.Stringer:
		return c.String()
	default:
		return fmt.Sprint(c)
	}
}

// DailyTable lays out one row per class day plus a trailing totals row.
func DailyTable(r *model.Report) Table {
	t := Table{
		Title:  DailyTitle,
		Header: []string{"Date", "Day", "Present", "Late", "Absent", "Excused", "Total"},
		Rows:   make([][]any, 0, len(r.Daily)+1),
	}
	for _, d := range r.Daily {
		t.Rows = append(t.Rows, []any{d.Date.String(), d.Label, d.Present, d.Late, d.Absent, d.Excused, d.Total})
	}
	if len(r.Daily) > 0 {
		tot := r.Totals
		t.Rows = append(t.Rows, []any{"Total", "", tot.Present, tot.Late, tot.Absent, tot.Excused, tot.Total})
	}
	return t
}

// BuilderTable lays out one row per builder in report order.
func BuilderTable(r *model.Report) Table {
	t := Table{
		Title:  BuildersTitle,
		Header: []string{"Builder", "Name", "Present", "Late", "Absent", "Excused", "Attended", "Days", "Rate %"},
		Rows:   make([][]any, 0, len(r.Builders)),
	}
	for _, b := range r.Builders {
		t.Rows = append(t.Rows, []any{
			b.BuilderID,
			r.Names[b.BuilderID],
			b.Present,
			b.Late,
			b.Absent,
			b.Excused,
			b.PresentOrLateCount,
			b.TotalCountedDays,
			b.Rate,
		})
	}
	return t
}

// Tables returns the daily and builder tables in export order.
func Tables(r *model.Report) []Table {
	return []Table{DailyTable(r), BuilderTable(r)}
}
