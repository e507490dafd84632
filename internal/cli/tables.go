package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/builder-tracking/internal/model"
	"github.com/Veraticus/builder-tracking/internal/report"
)

// RenderTable writes t as aligned columns with a styled header.
func RenderTable(w io.Writer, t report.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := make([]string, len(t.Header))
	for i, h := range t.Header {
		header[i] = TableHeaderStyle.Render(strings.ToUpper(h))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")); err != nil {
		return err
	}

	for _, row := range t.Strings() {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// RenderDaily writes the per-day table of r under a title.
func RenderDaily(w io.Writer, r *model.Report) error {
	if _, err := fmt.Fprintln(w, FormatTitle("Daily attendance "+r.Range.String())); err != nil {
		return err
	}
	if len(r.Daily) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("No class days in range."))
		return err
	}
	return RenderTable(w, report.DailyTable(r))
}

// RenderBuilders writes the per-builder rate table of r under a title.
func RenderBuilders(w io.Writer, r *model.Report) error {
	if _, err := fmt.Fprintln(w, FormatTitle("Builder attendance "+r.Range.String())); err != nil {
		return err
	}
	if len(r.Builders) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("No builders to report."))
		return err
	}
	return RenderTable(w, report.BuilderTable(r))
}
