package model

import "encoding/json"

// DailyAggregate holds the per-class-day counts used for charting.
type DailyAggregate struct {
	Date    Date   `json:"date"`
	Label   string `json:"label"`
	Present int    `json:"present"`
	Late    int    `json:"late"`
	Absent  int    `json:"absent"`
	Excused int    `json:"excused"`
	Total   int    `json:"total"`
}

// MarshalJSON omits date and label on rows without a date, such as range totals.
func (a DailyAggregate) MarshalJSON() ([]byte, error) {
	type counts DailyAggregate
	out := struct {
		Date  *Date  `json:"date,omitempty"`
		Label string `json:"label,omitempty"`
		counts
	}{Label: a.Label, counts: counts(a)}
	if !a.Date.IsZero() {
		out.Date = &a.Date
	}
	return json.Marshal(out)
}

// Add increments the counter matching c and keeps Total in sync.
func (a *DailyAggregate) Add(c Classification) {
	switch c {
	case ClassPresent:
		a.Present++
	case ClassLate:
		a.Late++
	case ClassAbsent:
		a.Absent++
	case ClassExcused:
		a.Excused++
	default:
		return
	}
	a.Total++
}

// Count returns the counter for c.
func (a DailyAggregate) Count(c Classification) int {
	switch c {
	case ClassPresent:
		return a.Present
	case ClassLate:
		return a.Late
	case ClassAbsent:
		return a.Absent
	case ClassExcused:
		return a.Excused
	}
	return 0
}

// BuilderAggregate holds the attendance rate of one builder.
type BuilderAggregate struct {
	BuilderID          string `json:"builder_id"`
	PresentOrLateCount int    `json:"present_or_late_count"`
	TotalCountedDays   int    `json:"total_counted_days"`
	Rate               int    `json:"rate"`
	Present            int    `json:"present"`
	Late               int    `json:"late"`
	Absent             int    `json:"absent"`
	Excused            int    `json:"excused"`
}

// Report bundles both aggregate shapes for one range.
type Report struct {
	Range    DateRange          `json:"range"`
	Daily    []DailyAggregate   `json:"daily"`
	Builders []BuilderAggregate `json:"builders"`
	Totals   DailyAggregate     `json:"totals"`
	Names    map[string]string  `json:"names,omitempty"`
}
