// Package calendar decides which calendar dates are class days.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/builder-tracking/internal/model"
)

// DefaultProgramStart is the first date attendance is taken.
var DefaultProgramStart = model.NewDate(2025, time.March, 15)

// DefaultNonClassWeekdays are the weekly days without class (Thursday and Friday).
var DefaultNonClassWeekdays = []time.Weekday{time.Thursday, time.Friday}

// ErrInvalidConfig is returned by New for unusable calendar settings.
var ErrInvalidConfig = errors.New("invalid calendar configuration")

// Reason explains why a date is or is not a class day.
type Reason string

// Day reasons, in the order they are checked.
const (
	ReasonBeforeStart     Reason = "before_program_start"
	ReasonNonClassWeekday Reason = "non_class_weekday"
	ReasonHoliday         Reason = "holiday"
	ReasonCancelled       Reason = "cancelled"
	ReasonClassDay        Reason = "class_day"
)

// Config holds the inputs the class calendar is built from.
type Config struct {
	ProgramStart     model.Date
	NonClassWeekdays []time.Weekday
	Holidays         []model.Date
	Cancelled        []model.Date
}

// DefaultConfig returns the observed program calendar with no exceptions.
func DefaultConfig() Config {
	return Config{
		ProgramStart:     DefaultProgramStart,
		NonClassWeekdays: append([]time.Weekday(nil), DefaultNonClassWeekdays...),
	}
}

// WithExceptions returns a copy of c with stored exceptions merged in.
func (c Config) WithExceptions(exceptions []model.CalendarException) Config {
	out := c
	out.Holidays = append([]model.Date(nil), c.Holidays...)
	out.Cancelled = append([]model.Date(nil), c.Cancelled...)
	for _, ex := range exceptions {
		switch ex.Kind {
		case model.ExceptionHoliday:
			out.Holidays = append(out.Holidays, ex.Date)
		case model.ExceptionCancelled:
			out.Cancelled = append(out.Cancelled, ex.Date)
		}
	}
	return out
}

// DayInfo describes a single date.
type DayInfo struct {
	Date        model.Date
	Label       string
	Reason      Reason
	IsClassDay  bool
	IsCancelled bool
}

// Oracle answers class-day questions. It is immutable after New and safe for
// concurrent use.
type Oracle struct {
	holidays     map[model.Date]struct{}
	cancelled    map[model.Date]struct{}
	programStart model.Date
	nonClass     [7]bool
}

// New builds an Oracle from cfg.
func New(cfg Config) (*Oracle, error) {
	if cfg.ProgramStart.IsZero() {
		return nil, fmt.Errorf("%w: program start date is required", ErrInvalidConfig)
	}

	o := &Oracle{
		programStart: cfg.ProgramStart,
		holidays:     make(map[model.Date]struct{}, len(cfg.Holidays)),
		cancelled:    make(map[model.Date]struct{}, len(cfg.Cancelled)),
	}

	for _, wd := range cfg.NonClassWeekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return nil, fmt.Errorf("%w: weekday %d out of range", ErrInvalidConfig, wd)
		}
		o.nonClass[wd] = true
	}
	if o.classWeekdayCount() == 0 {
		return nil, fmt.Errorf("%w: every weekday is marked as non-class", ErrInvalidConfig)
	}

	for _, d := range cfg.Holidays {
		o.holidays[d] = struct{}{}
	}
	for _, d := range cfg.Cancelled {
		o.cancelled[d] = struct{}{}
	}

	return o, nil
}

// ProgramStart returns the calendar floor.
func (o *Oracle) ProgramStart() model.Date {
	return o.programStart
}

// IsClassDay reports whether attendance is expected on d.
func (o *Oracle) IsClassDay(d model.Date) bool {
	return o.reason(d) == ReasonClassDay
}

// IsCancelledClassDay reports whether d would be a class day but was cancelled.
func (o *Oracle) IsCancelledClassDay(d model.Date) bool {
	return o.reason(d) == ReasonCancelled
}

// IsClassDayString parses s as a date and reports whether it is a class day.
func (o *Oracle) IsClassDayString(s string) (bool, error) {
	d, err := model.ParseDate(s)
	if err != nil {
		return false, err
	}
	return o.IsClassDay(d), nil
}

// IsCancelledClassDayString parses s and reports whether it is a cancelled class day.
func (o *Oracle) IsCancelledClassDayString(s string) (bool, error) {
	d, err := model.ParseDate(s)
	if err != nil {
		return false, err
	}
	return o.IsCancelledClassDay(d), nil
}

// Describe returns the full day info for d.
func (o *Oracle) Describe(d model.Date) DayInfo {
	reason := o.reason(d)
	return DayInfo{
		Date:        d,
		Label:       Label(d),
		Reason:      reason,
		IsClassDay:  reason == ReasonClassDay,
		IsCancelled: reason == ReasonCancelled,
	}
}

// ClassDays returns every class day in r in ascending order.
func (o *Oracle) ClassDays(r model.DateRange) ([]model.Date, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	var days []model.Date
	for _, d := range r.Days() {
		if o.IsClassDay(d) {
			days = append(days, d)
		}
	}
	return days, nil
}

// reason applies the calendar rules in a fixed order: floor, weekly rule,
// holidays, then cancellations.
func (o *Oracle) reason(d model.Date) Reason {
	if d.Before(o.programStart) {
		return ReasonBeforeStart
	}
	if o.nonClass[d.Weekday()] {
		return ReasonNonClassWeekday
	}
	if _, ok := o.holidays[d]; ok {
		return ReasonHoliday
	}
	if _, ok := o.cancelled[d]; ok {
		return ReasonCancelled
	}
	return ReasonClassDay
}

func (o *Oracle) classWeekdayCount() int {
	n := 0
	for _, off := range o.nonClass {
		if !off {
			n++
		}
	}
	return n
}

// Label renders d as zero-padded day of month plus short weekday, e.g. "05 Sat".
func Label(d model.Date) string {
	return fmt.Sprintf("%02d %s", d.Day, d.Weekday().String()[:3])
}
