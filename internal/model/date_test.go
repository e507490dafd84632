package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "plain date", input: "2025-03-15", want: Date{Year: 2025, Month: time.March, Day: 15}},
		{name: "surrounding whitespace", input: " 2025-12-01 ", want: Date{Year: 2025, Month: time.December, Day: 1}},
		{name: "leap day", input: "2024-02-29", want: Date{Year: 2024, Month: time.February, Day: 29}},
		{name: "empty", input: "", wantErr: true},
		{name: "not a leap year", input: "2025-02-29", wantErr: true},
		{name: "timestamp rejected", input: "2025-03-15T10:00:00Z", wantErr: true},
		{name: "us style", input: "03/15/2025", wantErr: true},
		{name: "garbage", input: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidDate))
				var dateErr *InvalidDateError
				require.True(t, errors.As(err, &dateErr))
				assert.Equal(t, tt.input, dateErr.Input)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := MustParseDate("2025-03-31")

	assert.Equal(t, "2025-04-01", d.AddDays(1).String())
	assert.Equal(t, "2025-03-30", d.AddDays(-1).String())
	assert.Equal(t, "2026-03-31", d.AddDays(365).String())
	assert.Equal(t, time.Monday, d.Weekday())

	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.After(d.AddDays(-1)))
	assert.True(t, d.Equal(MustParseDate("2025-03-31")))
	assert.Equal(t, 0, d.Compare(d))
}

func TestDateOf_UsesExplicitLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 02:30 UTC on the 16th is still the evening of the 15th in New York.
	instant := time.Date(2025, time.March, 16, 2, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-15", DateOf(instant, ny).String())
	assert.Equal(t, "2025-03-16", DateOf(instant, time.UTC).String())
	assert.Equal(t, "2025-03-16", DateOf(instant, nil).String())
}

func TestDate_TextRoundTrip(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalText([]byte("2025-07-04")))
	out, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2025-07-04", string(out))

	assert.Error(t, d.UnmarshalText([]byte("07-04-2025")))
}

func TestDateRange(t *testing.T) {
	r, err := NewDateRange("2025-03-14", "2025-03-20")
	require.NoError(t, err)

	days := r.Days()
	require.Len(t, days, 7)
	assert.Equal(t, "2025-03-14", days[0].String())
	assert.Equal(t, "2025-03-20", days[6].String())

	assert.True(t, r.Contains(MustParseDate("2025-03-14")))
	assert.True(t, r.Contains(MustParseDate("2025-03-20")))
	assert.False(t, r.Contains(MustParseDate("2025-03-21")))

	_, err = NewDateRange("2025-03-20", "2025-03-14")
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = NewDateRange("2025-03-20", "soon")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDateRange_Clamp(t *testing.T) {
	r := DateRange{Start: MustParseDate("2025-03-01"), End: MustParseDate("2025-03-31")}

	clamped, ok := r.Clamp(MustParseDate("2025-03-15"), MustParseDate("2025-03-20"))
	require.True(t, ok)
	assert.Equal(t, "2025-03-15..2025-03-20", clamped.String())

	_, ok = r.Clamp(MustParseDate("2025-04-01"), MustParseDate("2025-04-30"))
	assert.False(t, ok)
}
