package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/builder-tracking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOracle(t *testing.T, holidays, cancelled []string) *Oracle {
	t.Helper()
	cfg := DefaultConfig()
	for _, h := range holidays {
		cfg.Holidays = append(cfg.Holidays, model.MustParseDate(h))
	}
	for _, c := range cancelled {
		cfg.Cancelled = append(cfg.Cancelled, model.MustParseDate(c))
	}
	o, err := New(cfg)
	require.NoError(t, err)
	return o
}

func TestOracle_IsClassDay(t *testing.T) {
	o := newTestOracle(t, []string{"2025-05-26"}, []string{"2025-06-02"})

	tests := []struct {
		name   string
		date   string
		reason Reason
		want   bool
	}{
		{name: "day before floor", date: "2025-03-14", want: false, reason: ReasonBeforeStart},
		{name: "floor itself (Saturday)", date: "2025-03-15", want: true, reason: ReasonClassDay},
		{name: "sunday", date: "2025-03-16", want: true, reason: ReasonClassDay},
		{name: "monday", date: "2025-03-17", want: true, reason: ReasonClassDay},
		{name: "wednesday", date: "2025-03-19", want: true, reason: ReasonClassDay},
		{name: "thursday", date: "2025-03-20", want: false, reason: ReasonNonClassWeekday},
		{name: "friday", date: "2025-03-21", want: false, reason: ReasonNonClassWeekday},
		{name: "holiday on a monday", date: "2025-05-26", want: false, reason: ReasonHoliday},
		{name: "cancelled monday", date: "2025-06-02", want: false, reason: ReasonCancelled},
		{name: "weekday long before floor", date: "2024-03-18", want: false, reason: ReasonBeforeStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := model.MustParseDate(tt.date)
			assert.Equal(t, tt.want, o.IsClassDay(d))
			info := o.Describe(d)
			assert.Equal(t, tt.reason, info.Reason)
			assert.Equal(t, tt.want, info.IsClassDay)
		})
	}
}

func TestOracle_BeforeFloorNeverClassDay(t *testing.T) {
	o := newTestOracle(t, nil, nil)
	floor := o.ProgramStart()
	for i := 1; i <= 400; i++ {
		d := floor.AddDays(-i)
		assert.False(t, o.IsClassDay(d), "date %s before floor", d)
	}
}

func TestOracle_NonClassWeekdaysIndependentOfYear(t *testing.T) {
	o := newTestOracle(t, nil, nil)
	start := model.MustParseDate("2025-03-15")
	for i := 0; i < 3*365; i++ {
		d := start.AddDays(i)
		wd := d.Weekday()
		if wd == time.Thursday || wd == time.Friday {
			assert.False(t, o.IsClassDay(d), "date %s is a %s", d, wd)
		} else {
			assert.True(t, o.IsClassDay(d), "date %s is a %s", d, wd)
		}
	}
}

func TestOracle_HolidaysOverrideClassWeekdays(t *testing.T) {
	holidays := []string{"2025-07-05", "2025-09-01", "2025-11-26"}
	o := newTestOracle(t, holidays, nil)
	for _, h := range holidays {
		d := model.MustParseDate(h)
		assert.False(t, o.IsClassDay(d), h)
		assert.False(t, o.IsCancelledClassDay(d), "holidays are not cancellations: %s", h)
	}
}

func TestOracle_IsCancelledClassDay(t *testing.T) {
	// 2025-06-05 is a Thursday: a cancellation on a non-class weekday means nothing.
	o := newTestOracle(t, []string{"2025-06-09"}, []string{"2025-06-02", "2025-06-05", "2025-06-09", "2025-03-01"})

	assert.True(t, o.IsCancelledClassDay(model.MustParseDate("2025-06-02")))
	assert.False(t, o.IsCancelledClassDay(model.MustParseDate("2025-06-05")))
	assert.False(t, o.IsCancelledClassDay(model.MustParseDate("2025-06-09")), "holiday wins over cancellation")
	assert.False(t, o.IsCancelledClassDay(model.MustParseDate("2025-03-01")), "before floor")
	assert.False(t, o.IsCancelledClassDay(model.MustParseDate("2025-06-03")))
}

func TestOracle_StringInputsFailFast(t *testing.T) {
	o := newTestOracle(t, nil, nil)

	ok, err := o.IsClassDayString("2025-03-14")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = o.IsClassDayString("2025-13-01")
	require.Error(t, err)
	var dateErr *model.InvalidDateError
	assert.True(t, errors.As(err, &dateErr))

	_, err = o.IsCancelledClassDayString("03/15/2025")
	assert.ErrorIs(t, err, model.ErrInvalidDate)
}

func TestOracle_ClassDays(t *testing.T) {
	o := newTestOracle(t, nil, nil)

	// Saturday through Friday: Thursday and Friday drop out.
	r := model.DateRange{Start: model.MustParseDate("2025-03-15"), End: model.MustParseDate("2025-03-21")}
	days, err := o.ClassDays(r)
	require.NoError(t, err)
	require.Len(t, days, 5)
	assert.Equal(t, "2025-03-15", days[0].String())
	assert.Equal(t, "2025-03-19", days[4].String())

	_, err = o.ClassDays(model.DateRange{Start: r.End, End: r.Start})
	assert.ErrorIs(t, err, model.ErrInvalidDateRange)
}

func TestNew_RejectsBadConfig(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{ProgramStart: DefaultProgramStart, NonClassWeekdays: []time.Weekday{9}})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	all := []time.Weekday{0, 1, 2, 3, 4, 5, 6}
	_, err = New(Config{ProgramStart: DefaultProgramStart, NonClassWeekdays: all})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_WithExceptions(t *testing.T) {
	base := DefaultConfig()
	cfg := base.WithExceptions([]model.CalendarException{
		{Date: model.MustParseDate("2025-05-26"), Kind: model.ExceptionHoliday},
		{Date: model.MustParseDate("2025-06-02"), Kind: model.ExceptionCancelled},
	})

	assert.Len(t, cfg.Holidays, 1)
	assert.Len(t, cfg.Cancelled, 1)
	assert.Empty(t, base.Holidays, "base config must not be mutated")
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "15 Sat", Label(model.MustParseDate("2025-03-15")))
	assert.Equal(t, "03 Mon", Label(model.MustParseDate("2025-03-03")))
}
