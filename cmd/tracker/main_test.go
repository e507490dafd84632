package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/builder-tracking/internal/common"
	"github.com/Veraticus/builder-tracking/internal/model"
)

// tracker runs the CLI against a throwaway database.
type tracker struct {
	t      *testing.T
	dir    string
	config string
}

func newTracker(t *testing.T) *tracker {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("database:\n  path: %s\nlogging:\n  level: error\n", filepath.Join(dir, "tracker.db"))
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0600))
	return &tracker{t: t, dir: dir, config: cfg}
}

func (tr *tracker) run(stdin string, args ...string) (string, error) {
	tr.t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", tr.config}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (tr *tracker) mustRun(args ...string) string {
	tr.t.Helper()
	out, err := tr.run("", args...)
	require.NoError(tr.t, err, out)
	return out
}

type builderJSON struct {
	BuilderID string `json:"builder_id"`
	Name      string `json:"name"`
	Present   int    `json:"present"`
	Late      int    `json:"late"`
	Excused   int    `json:"excused"`
	Absent    int    `json:"absent"`
	Days      int    `json:"total_counted_days"`
	Rate      int    `json:"rate"`
}

func (tr *tracker) builderRates(args ...string) map[string]builderJSON {
	tr.t.Helper()
	out := tr.mustRun(append([]string{"report", "builders", "--format", "json"}, args...)...)

	var payload struct {
		Builders []builderJSON `json:"builders"`
	}
	require.NoError(tr.t, json.Unmarshal([]byte(out), &payload), out)

	rates := make(map[string]builderJSON, len(payload.Builders))
	for _, b := range payload.Builders {
		rates[b.BuilderID] = b
	}
	return rates
}

func TestCLI_CheckInExcuseAndReport(t *testing.T) {
	tr := newTracker(t)

	tr.mustRun("migrate")
	tr.mustRun("builders", "add", "Ada Lovelace", "--id", "ada")
	tr.mustRun("builders", "add", "Grace Hopper", "--id", "grace")

	// Sunday 2025-03-16: weekend cutoff is 10:00.
	out := tr.mustRun("checkin", "ada", "--at", "2025-03-16T09:55:00-04:00")
	assert.Contains(t, out, "present")
	out = tr.mustRun("checkin", "grace", "--at", "2025-03-16T10:20:00-04:00")
	assert.Contains(t, out, "late")

	tr.mustRun("excuse", "ada", "--date", "2025-03-15", "--reason", "Doctor")

	rates := tr.builderRates("--from", "2025-03-15", "--to", "2025-03-16")
	require.Len(t, rates, 2)
	assert.Equal(t, builderJSON{BuilderID: "ada", Name: "Ada Lovelace", Present: 1, Excused: 1, Days: 2, Rate: 50}, rates["ada"])
	assert.Equal(t, builderJSON{BuilderID: "grace", Name: "Grace Hopper", Late: 1, Days: 1, Rate: 100}, rates["grace"])

	out = tr.mustRun("report", "daily", "--from", "2025-03-15", "--to", "2025-03-21")
	assert.Contains(t, out, "2025-03-16")
	assert.NotContains(t, out, "2025-03-20", "Thursday is not a class day")
}

func TestCLI_DailyJSONDecodes(t *testing.T) {
	tr := newTracker(t)

	tr.mustRun("migrate")
	tr.mustRun("builders", "add", "Ada Lovelace", "--id", "ada")
	tr.mustRun("checkin", "ada", "--at", "2025-03-16T09:55:00-04:00")

	out := tr.mustRun("report", "daily", "--from", "2025-03-15", "--to", "2025-03-17", "--format", "json")
	assert.NotContains(t, out, "0000-00-00")

	var payload struct {
		Range  model.DateRange        `json:"range"`
		Daily  []model.DailyAggregate `json:"daily"`
		Totals model.DailyAggregate   `json:"totals"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload), out)
	assert.Equal(t, model.MustParseDate("2025-03-15"), payload.Range.Start)
	require.Len(t, payload.Daily, 3)
	assert.Equal(t, model.MustParseDate("2025-03-16"), payload.Daily[1].Date)
	assert.True(t, payload.Totals.Date.IsZero())
	assert.Equal(t, 1, payload.Totals.Present)
}

func TestCLI_RejectsNonClassDay(t *testing.T) {
	tr := newTracker(t)
	tr.mustRun("builders", "add", "Ada", "--id", "ada")

	// Thursday.
	_, err := tr.run("", "checkin", "ada", "--at", "2025-03-20T18:00:00-04:00")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotClassDay)

	_, err = tr.run("", "checkin", "nobody", "--at", "2025-03-16T09:00:00-04:00")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCLI_InactiveBuilder(t *testing.T) {
	tr := newTracker(t)
	tr.mustRun("builders", "add", "Ada", "--id", "ada")
	tr.mustRun("builders", "deactivate", "ada")

	out := tr.mustRun("builders", "list")
	assert.Contains(t, out, "No builders found.")
	out = tr.mustRun("builders", "list", "--all")
	assert.Contains(t, out, "inactive")

	_, err := tr.run("", "checkin", "ada", "--at", "2025-03-16T09:00:00-04:00")
	assert.ErrorIs(t, err, common.ErrInactiveBuilder)
}

func TestCLI_OpenDayAndCorrect(t *testing.T) {
	tr := newTracker(t)
	tr.mustRun("builders", "add", "Ada", "--id", "ada")
	tr.mustRun("builders", "add", "Grace", "--id", "grace")

	out := tr.mustRun("open-day", "2025-03-16")
	assert.Contains(t, out, "2 pending rows created")

	tr.mustRun("checkin", "ada", "--at", "2025-03-16T09:00:00-04:00")

	out, err := tr.run("n\n", "correct", "2025-03-16")
	require.NoError(t, err)
	assert.Contains(t, out, "Correction cancelled.")

	out, err = tr.run("y\n", "correct", "2025-03-16")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Marked 1 pending rows absent")

	rates := tr.builderRates("--from", "2025-03-16", "--to", "2025-03-16")
	assert.Equal(t, 1, rates["grace"].Absent)
	assert.Equal(t, 0, rates["grace"].Rate)

	out = tr.mustRun("checkpoint", "list")
	assert.Contains(t, out, "auto-correct-")
}

func TestCLI_CorrectRejectsFutureDay(t *testing.T) {
	tr := newTracker(t)
	future := time.Now().AddDate(0, 0, 7).Format("2006-01-02")

	_, err := tr.run("y\n", "correct", future)
	require.Error(t, err)
}

func TestCLI_Calendar(t *testing.T) {
	tr := newTracker(t)
	tr.mustRun("builders", "add", "Ada", "--id", "ada")

	out := tr.mustRun("calendar", "check", "2025-03-16")
	assert.Contains(t, out, "is a class day")
	out = tr.mustRun("calendar", "check", "2025-03-20")
	assert.Contains(t, out, "no class on this weekday")
	out = tr.mustRun("calendar", "check", "2025-03-01")
	assert.Contains(t, out, "before the program started")

	tr.mustRun("calendar", "holiday", "2025-03-16", "--reason", "Spring break")
	tr.mustRun("calendar", "cancel", "2025-03-17", "--reason", "Instructor out")

	out = tr.mustRun("calendar", "check", "2025-03-16")
	assert.Contains(t, out, "holiday")
	out = tr.mustRun("calendar", "check", "2025-03-17")
	assert.Contains(t, out, "cancelled class day")

	_, err := tr.run("", "checkin", "ada", "--at", "2025-03-16T09:00:00-04:00")
	assert.ErrorIs(t, err, common.ErrNotClassDay)

	out = tr.mustRun("calendar", "list", "--exceptions")
	assert.Contains(t, out, "Spring break")
	assert.Contains(t, out, "Instructor out")

	tr.mustRun("calendar", "holiday", "2025-03-16", "--remove")
	out = tr.mustRun("calendar", "check", "2025-03-16")
	assert.Contains(t, out, "is a class day")

	_, err = tr.run("", "calendar", "holiday", "2025-03-16", "--remove")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCLI_Import(t *testing.T) {
	tr := newTracker(t)
	tr.mustRun("builders", "add", "Ada", "--id", "ada")
	tr.mustRun("builders", "add", "Grace", "--id", "grace")

	csvPath := filepath.Join(tr.dir, "attendance.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"builder_id,date,status,time_recorded,excuse_reason\n"+
			"ada,2025-03-16,present,2025-03-16T09:30:00-04:00,\n"+
			"grace,2025-03-16,absent,,Sick\n"), 0600))

	out := tr.mustRun("import", csvPath, "--quiet")
	assert.Contains(t, out, "Imported 2 attendance rows")

	rates := tr.builderRates("--from", "2025-03-16", "--to", "2025-03-16")
	assert.Equal(t, 1, rates["ada"].Present)
	assert.Equal(t, 1, rates["grace"].Excused)

	out = tr.mustRun("checkpoint", "list")
	assert.Contains(t, out, "auto-import-")
}

func TestCLI_ImportRejectsBadFile(t *testing.T) {
	tr := newTracker(t)
	tr.mustRun("builders", "add", "Ada", "--id", "ada")

	_, err := tr.run("builder_id,date,status\nada,2025-03-16,maybe\n", "import", "-", "--quiet", "--no-checkpoint")
	require.Error(t, err)

	rates := tr.builderRates("--from", "2025-03-16", "--to", "2025-03-16")
	assert.Equal(t, 0, rates["ada"].Days)
}

func TestCLI_Checkpoints(t *testing.T) {
	tr := newTracker(t)
	tr.mustRun("builders", "add", "Ada", "--id", "ada")

	out := tr.mustRun("checkpoint", "create", "--tag", "before", "--description", "one builder")
	assert.Contains(t, out, "Created checkpoint before")

	tr.mustRun("builders", "add", "Grace", "--id", "grace")

	out, err := tr.run("y\n", "checkpoint", "restore", "before")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Restored from checkpoint before")

	out = tr.mustRun("builders", "list")
	assert.Contains(t, out, "ada")
	assert.NotContains(t, out, "grace")

	tr.mustRun("checkpoint", "delete", "before", "--force")
	out = tr.mustRun("checkpoint", "list")
	assert.Contains(t, out, "No checkpoints found.")

	_, err = tr.run("", "checkpoint", "delete", "missing", "--force")
	require.Error(t, err)
}

func TestCLI_ExportXLSX(t *testing.T) {
	tr := newTracker(t)
	tr.mustRun("builders", "add", "Ada", "--id", "ada")
	tr.mustRun("checkin", "ada", "--at", "2025-03-16T09:00:00-04:00")

	path := filepath.Join(tr.dir, "out", "report.xlsx")
	out := tr.mustRun("export", "xlsx", "--from", "2025-03-15", "--to", "2025-03-16", "-o", path)
	assert.Contains(t, out, "Wrote "+path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestCLI_ReportFormatValidation(t *testing.T) {
	tr := newTracker(t)

	_, err := tr.run("", "report", "daily", "--format", "csv")
	require.Error(t, err)

	_, err = tr.run("", "report", "daily", "--from", "2025-04-10", "--to", "2025-04-01")
	require.Error(t, err)
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		want string
		size int64
	}{
		{"512 B", 512},
		{"1.0 KB", 1024},
		{"1.5 KB", 1536},
		{"2.0 MB", 2 * 1024 * 1024},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatFileSize(tt.size))
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		then time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-time.Minute), "1 minute ago"},
		{now.Add(-5 * time.Minute), "5 minutes ago"},
		{now.Add(-time.Hour), "1 hour ago"},
		{now.Add(-30 * time.Hour), "yesterday"},
		{now.Add(-72 * time.Hour), "3 days ago"},
		{now.Add(-30 * 24 * time.Hour), "2025-02-18 12:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatRelativeTime(tt.then, now))
	}
}
