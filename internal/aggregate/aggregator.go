// Package aggregate folds normalized attendance records into per-day and
// per-builder statistics.
//
// Callers must deduplicate records by (builder, date) before aggregating.
// Duplicates are counted twice unless the aggregator runs in strict mode, in
// which case they are reported as *model.DuplicateRecordError.
package aggregate

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/Veraticus/builder-tracking/internal/calendar"
	"github.com/Veraticus/builder-tracking/internal/classify"
	"github.com/Veraticus/builder-tracking/internal/model"
)

// Aggregator computes DailyAggregate and BuilderAggregate values.
// It holds no mutable state and is safe for concurrent use.
type Aggregator struct {
	oracle     *calendar.Oracle
	normalizer *classify.Normalizer
	now        func() time.Time
	loc        *time.Location
	strict     bool
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithStrict makes duplicate (builder, date) rows an error instead of a double count.
func WithStrict(strict bool) Option {
	return func(a *Aggregator) { a.strict = strict }
}

// WithClock overrides the clock used for the "today" upper bound.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// New creates an Aggregator. "Today" is computed in the normalizer's zone.
func New(oracle *calendar.Oracle, normalizer *classify.Normalizer, opts ...Option) *Aggregator {
	a := &Aggregator{
		oracle:     oracle,
		normalizer: normalizer,
		now:        time.Now,
		loc:        normalizer.Location(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Today returns the current date in the aggregator's zone.
func (a *Aggregator) Today() model.Date {
	return model.DateOf(a.now(), a.loc)
}

// ByDay returns one row per class day in r, including days with no records.
// When builderIDs is non-empty, records of other builders are ignored.
func (a *Aggregator) ByDay(records []model.AttendanceRecord, r model.DateRange, builderIDs []string) ([]model.DailyAggregate, error) {
	days, err := a.oracle.ClassDays(r)
	if err != nil {
		return nil, err
	}

	rows := make([]model.DailyAggregate, len(days))
	index := make(map[model.Date]int, len(days))
	for i, d := range days {
		rows[i] = model.DailyAggregate{Date: d, Label: calendar.Label(d)}
		index[d] = i
	}

	allowed := toSet(builderIDs)
	seen := make(map[model.RecordKey]struct{}, len(records))
	duplicates := 0

	for _, rec := range records {
		i, ok := index[rec.Date]
		if !ok {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[rec.BuilderID]; !ok {
				continue
			}
		}

		dup, err := a.checkDuplicate(seen, rec)
		if err != nil {
			return nil, err
		}
		if dup {
			duplicates++
		}

		class, err := a.normalizer.Scored(rec)
		if err != nil {
			return nil, err
		}
		rows[i].Add(class)
	}

	if duplicates > 0 {
		slog.Warn("Duplicate attendance records counted twice",
			"range", r.String(),
			"duplicates", duplicates)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	return rows, nil
}

// ByBuilder returns the attendance rate of every builder in builderIDs over
// the class days of r that fall between the program start and today. Listed
// builders without records are present with a zero rate. When builderIDs is
// empty, every builder found in records is reported.
func (a *Aggregator) ByBuilder(records []model.AttendanceRecord, r model.DateRange, builderIDs []string) (map[string]model.BuilderAggregate, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	out := make(map[string]model.BuilderAggregate, len(builderIDs))
	for _, id := range builderIDs {
		out[id] = model.BuilderAggregate{BuilderID: id}
	}

	window, ok := r.Clamp(a.oracle.ProgramStart(), a.Today())
	if !ok {
		return out, nil
	}

	allowed := toSet(builderIDs)
	groups := make(map[string][]model.AttendanceRecord)
	for _, rec := range records {
		if !window.Contains(rec.Date) || !a.oracle.IsClassDay(rec.Date) {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[rec.BuilderID]; !ok {
				continue
			}
		}
		groups[rec.BuilderID] = append(groups[rec.BuilderID], rec)
	}

	for id, recs := range groups {
		agg, err := a.builderAggregate(id, recs)
		if err != nil {
			return nil, err
		}
		out[id] = agg
	}

	return out, nil
}

func (a *Aggregator) builderAggregate(id string, recs []model.AttendanceRecord) (model.BuilderAggregate, error) {
	agg := model.BuilderAggregate{BuilderID: id}
	seen := make(map[model.RecordKey]struct{}, len(recs))

	for _, rec := range recs {
		dup, err := a.checkDuplicate(seen, rec)
		if err != nil {
			return model.BuilderAggregate{}, err
		}
		if dup {
			slog.Warn("Duplicate attendance record counted twice",
				"builder_id", rec.BuilderID,
				"date", rec.Date.String())
		}

		class, err := a.normalizer.Scored(rec)
		if err != nil {
			return model.BuilderAggregate{}, err
		}

		agg.TotalCountedDays++
		switch class {
		case model.ClassPresent:
			agg.Present++
		case model.ClassLate:
			agg.Late++
		case model.ClassAbsent:
			agg.Absent++
		case model.ClassExcused:
			agg.Excused++
		}
		if class.Attended() {
			agg.PresentOrLateCount++
		}
	}

	agg.Rate = Rate(agg.PresentOrLateCount, agg.TotalCountedDays)
	return agg, nil
}

// checkDuplicate records rec's key and reports whether it was already seen.
func (a *Aggregator) checkDuplicate(seen map[model.RecordKey]struct{}, rec model.AttendanceRecord) (bool, error) {
	key := rec.Key()
	if _, ok := seen[key]; !ok {
		seen[key] = struct{}{}
		return false, nil
	}
	if a.strict {
		return true, &model.DuplicateRecordError{BuilderID: rec.BuilderID, Date: rec.Date}
	}
	return true, nil
}

// Rate returns round(attended/total*100), or 0 when total is 0.
func Rate(attended, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(attended) / float64(total) * 100))
}

// Totals sums daily rows into a single row for pie charts.
func Totals(rows []model.DailyAggregate) model.DailyAggregate {
	var t model.DailyAggregate
	for _, r := range rows {
		t.Present += r.Present
		t.Late += r.Late
		t.Absent += r.Absent
		t.Excused += r.Excused
		t.Total += r.Total
	}
	return t
}

// Ranked returns builder aggregates ordered by rate (highest first), then by ID.
func Ranked(m map[string]model.BuilderAggregate) []model.BuilderAggregate {
	out := make([]model.BuilderAggregate, 0, len(m))
	for _, agg := range m {
		out = append(out, agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rate != out[j].Rate {
			return out[i].Rate > out[j].Rate
		}
		return out[i].BuilderID < out[j].BuilderID
	})
	return out
}

// Dedupe keeps the first record for each (builder, date) pair and reports how
// many rows were dropped.
func Dedupe(records []model.AttendanceRecord) ([]model.AttendanceRecord, int) {
	seen := make(map[model.RecordKey]struct{}, len(records))
	out := make([]model.AttendanceRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.Key()]; ok {
			continue
		}
		seen[rec.Key()] = struct{}{}
		out = append(out, rec)
	}
	return out, len(records) - len(out)
}

func toSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
