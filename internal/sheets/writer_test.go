package sheets

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Veraticus/builder-tracking/internal/common"
	"github.com/Veraticus/builder-tracking/internal/model"
	"github.com/Veraticus/builder-tracking/internal/report"
	"github.com/Veraticus/builder-tracking/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"
)

func TestClassifyAPIError(t *testing.T) {
	tests := []struct {
		err           error
		name          string
		wantRateLimit bool
		wantRetryable bool
	}{
		{name: "rate limited", err: &googleapi.Error{Code: http.StatusTooManyRequests}, wantRateLimit: true, wantRetryable: true},
		{name: "server error", err: &googleapi.Error{Code: http.StatusBadGateway}, wantRetryable: true},
		{name: "not found", err: &googleapi.Error{Code: http.StatusNotFound}},
		{name: "forbidden", err: &googleapi.Error{Code: http.StatusForbidden}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyAPIError(tt.err)
			assert.Equal(t, tt.wantRateLimit, errors.Is(got, common.ErrRateLimit))
			assert.Equal(t, tt.wantRetryable, common.IsRetryable(got))

			var apiErr *googleapi.Error
			assert.True(t, errors.As(got, &apiErr), "original error stays reachable")
		})
	}

	assert.NoError(t, classifyAPIError(nil))
	plain := errors.New("boom")
	assert.Same(t, plain, classifyAPIError(plain))
}

func TestClassifyAPIError_StopsRetry(t *testing.T) {
	calls := 0
	err := common.WithRetry(context.Background(), func(context.Context) error {
		calls++
		return classifyAPIError(&googleapi.Error{Code: http.StatusBadRequest})
	}, service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestTabHelpers(t *testing.T) {
	ss := &sheets.Spreadsheet{
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: report.DailyTitle, SheetId: 7}},
			{Properties: nil},
		},
	}

	ids := existingTabs(ss)
	assert.Equal(t, map[string]int64{report.DailyTitle: 7}, ids)
	assert.Equal(t, []string{report.BuildersTitle}, missingTabs(ids, report.DailyTitle, report.BuildersTitle))
	assert.Equal(t, "'Daily'!A:Z", tabRange(report.DailyTitle, "A:Z"))
}

func TestFormattingRequests(t *testing.T) {
	requests := formattingRequests(map[string]int64{report.DailyTitle: 0, report.BuildersTitle: 12})
	require.Len(t, requests, 6)

	assert.Equal(t, int64(0), requests[0].RepeatCell.Range.SheetId)
	assert.True(t, requests[0].RepeatCell.Cell.UserEnteredFormat.TextFormat.Bold)
	assert.Equal(t, int64(1), requests[1].UpdateSheetProperties.Properties.GridProperties.FrozenRowCount)
	assert.Equal(t, int64(12), requests[3].RepeatCell.Range.SheetId)

	assert.Empty(t, formattingRequests(map[string]int64{}))
}

func TestNewWriter_InvalidConfig(t *testing.T) {
	_, err := NewWriter(context.Background(), Config{}, nil)
	assert.ErrorIs(t, err, ErrNoAuth)
}

func TestWriter_NilReport(t *testing.T) {
	w := &Writer{config: DefaultConfig()}
	err := w.Write(context.Background(), nil)
	assert.ErrorIs(t, err, common.ErrExportFailed)
}

func TestMockWriter(t *testing.T) {
	m := NewMockWriter()
	rpt := &model.Report{Range: model.DateRange{Start: model.MustParseDate("2025-03-15"), End: model.MustParseDate("2025-03-15")}}

	require.NoError(t, m.Write(context.Background(), rpt))
	m.AssertWriteCalled(t, 1)
	assert.Same(t, rpt, m.LastReport)

	boom := errors.New("quota")
	m.SetWriteError(boom)
	assert.ErrorIs(t, m.Write(context.Background(), rpt), boom)

	calls := m.GetWriteCalls()
	require.Len(t, calls, 2)
	assert.NoError(t, calls[0].Error)
	assert.ErrorIs(t, calls[1].Error, boom)

	m.Reset()
	assert.Equal(t, 0, m.WriteCallCount)
	assert.Nil(t, m.LastReport)
}
