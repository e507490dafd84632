// Package classify turns stored attendance rows into scored and display classifications.
package classify

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/builder-tracking/internal/model"
)

// DefaultTimezone is the program's home zone.
const DefaultTimezone = "America/New_York"

// Arrival configuration errors.
var (
	ErrInvalidCutoff   = errors.New("invalid cutoff time")
	ErrInvalidArrival  = errors.New("invalid arrival configuration")
	ErrMissingLocation = errors.New("arrival classifier requires an explicit location")
)

// Arrival is the outcome of comparing a check-in against the cutoff.
type Arrival int

// Arrival outcomes.
const (
	OnTime Arrival = iota
	Late
)

func (a Arrival) String() string {
	if a == Late {
		return "late"
	}
	return "on_time"
}

// ArrivalConfig holds the late cutoffs and the zone they are expressed in.
type ArrivalConfig struct {
	Location      *time.Location
	WeekendDays   []time.Weekday
	WeekendCutoff TimeOfDay
	WeekdayCutoff TimeOfDay
}

// DefaultArrivalConfig returns the observed schedule: weekend sessions are
// late from 10:00, weekday sessions from 18:30, both in New York time.
func DefaultArrivalConfig() (ArrivalConfig, error) {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return ArrivalConfig{}, fmt.Errorf("failed to load %s: %w", DefaultTimezone, err)
	}
	return ArrivalConfig{
		Location:      loc,
		WeekendDays:   []time.Weekday{time.Saturday, time.Sunday},
		WeekendCutoff: TimeOfDay{Hour: 10},
		WeekdayCutoff: TimeOfDay{Hour: 18, Minute: 30},
	}, nil
}

// ArrivalClassifier decides whether a check-in on a class day was late.
type ArrivalClassifier struct {
	loc           *time.Location
	weekendCutoff TimeOfDay
	weekdayCutoff TimeOfDay
	weekend       [7]bool
}

// NewArrivalClassifier validates cfg and builds a classifier.
// A nil Location is rejected: the host zone is never used implicitly.
func NewArrivalClassifier(cfg ArrivalConfig) (*ArrivalClassifier, error) {
	if cfg.Location == nil {
		return nil, ErrMissingLocation
	}
	c := &ArrivalClassifier{
		loc:           cfg.Location,
		weekendCutoff: cfg.WeekendCutoff,
		weekdayCutoff: cfg.WeekdayCutoff,
	}
	for _, wd := range cfg.WeekendDays {
		if wd < time.Sunday || wd > time.Saturday {
			return nil, fmt.Errorf("%w: weekday %d out of range", ErrInvalidArrival, wd)
		}
		c.weekend[wd] = true
	}
	return c, nil
}

// Location returns the zone cutoffs are evaluated in.
func (c *ArrivalClassifier) Location() *time.Location {
	return c.loc
}

// Cutoff returns the instant at which check-ins on date become late.
func (c *ArrivalClassifier) Cutoff(date model.Date) time.Time {
	cut := c.weekdayCutoff
	if c.weekend[date.Weekday()] {
		cut = c.weekendCutoff
	}
	return date.In(c.loc, cut.Hour, cut.Minute, cut.Second)
}

// Classify compares recorded against the cutoff of the class date.
// A check-in at exactly the cutoff is late.
func (c *ArrivalClassifier) Classify(date model.Date, recorded time.Time) Arrival {
	if recorded.Before(c.Cutoff(date)) {
		return OnTime
	}
	return Late
}
