// Package engine runs the attendance rules against stored data: it builds
// the class calendar from stored exceptions, records check-ins and
// corrections, and produces the per-day and per-builder reports.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/builder-tracking/internal/aggregate"
	"github.com/Veraticus/builder-tracking/internal/calendar"
	"github.com/Veraticus/builder-tracking/internal/classify"
	"github.com/Veraticus/builder-tracking/internal/common"
	"github.com/Veraticus/builder-tracking/internal/model"
	"github.com/Veraticus/builder-tracking/internal/service"
)

// Config holds the rules the engine applies.
type Config struct {
	Arrival          classify.ArrivalConfig
	Calendar         calendar.Config
	StrictDuplicates bool
}

// Engine orchestrates storage, the record cache and the attendance rules.
type Engine struct {
	storage      service.Storage
	reader       service.AttendanceReader
	cache        CachingReader
	checkpointer service.Checkpointer
	arrival      *classify.ArrivalClassifier
	normalizer   *classify.Normalizer
	now          func() time.Time
	calendar     calendar.Config
	strict       bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache routes attendance reads through reader and invalidates it after writes.
func WithCache(reader CachingReader) Option {
	return func(e *Engine) {
		e.cache = reader
		e.reader = reader
	}
}

// WithCheckpointer snapshots the database before bulk corrections.
func WithCheckpointer(cp service.Checkpointer) Option {
	return func(e *Engine) { e.checkpointer = cp }
}

// WithClock overrides the engine clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New validates cfg and creates an engine.
func New(store service.Storage, cfg Config, opts ...Option) (*Engine, error) {
	if _, err := calendar.New(cfg.Calendar); err != nil {
		return nil, err
	}
	arrival, err := classify.NewArrivalClassifier(cfg.Arrival)
	if err != nil {
		return nil, err
	}

	normalizer, err := classify.NewNormalizer(arrival)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		storage:    store,
		reader:     store,
		arrival:    arrival,
		normalizer: normalizer,
		calendar:   cfg.Calendar,
		strict:     cfg.StrictDuplicates,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Location returns the program's home zone.
func (e *Engine) Location() *time.Location {
	return e.arrival.Location()
}

// Today returns the current date in the home zone.
func (e *Engine) Today() model.Date {
	return model.DateOf(e.now(), e.Location())
}

// Normalizer exposes the record normalizer for display code.
func (e *Engine) Normalizer() *classify.Normalizer {
	return e.normalizer
}

// Oracle builds the class calendar including stored holidays and cancellations.
func (e *Engine) Oracle(ctx context.Context) (*calendar.Oracle, error) {
	exceptions, err := e.storage.ListCalendarExceptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar exceptions: %w", err)
	}
	return calendar.New(e.calendar.WithExceptions(exceptions))
}

// DescribeDay explains whether date is a class day.
func (e *Engine) DescribeDay(ctx context.Context, date model.Date) (calendar.DayInfo, error) {
	oracle, err := e.Oracle(ctx)
	if err != nil {
		return calendar.DayInfo{}, err
	}
	return oracle.Describe(date), nil
}

func (e *Engine) aggregator(oracle *calendar.Oracle) *aggregate.Aggregator {
	return aggregate.New(oracle, e.normalizer,
		aggregate.WithStrict(e.strict),
		aggregate.WithClock(e.now))
}

func (e *Engine) records(ctx context.Context, r model.DateRange, builderIDs []string) ([]model.AttendanceRecord, error) {
	records, err := e.reader.GetAttendance(ctx, service.AttendanceFilter{Range: &r, BuilderIDs: builderIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}
	return records, nil
}

// DailyReport returns one aggregate per class day in r.
func (e *Engine) DailyReport(ctx context.Context, r model.DateRange, builderIDs []string) ([]model.DailyAggregate, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	oracle, err := e.Oracle(ctx)
	if err != nil {
		return nil, err
	}
	records, err := e.records(ctx, r, builderIDs)
	if err != nil {
		return nil, err
	}
	return e.aggregator(oracle).ByDay(records, r, builderIDs)
}

// BuilderReport returns attendance rates for builderIDs, or for every active
// builder when builderIDs is empty.
func (e *Engine) BuilderReport(ctx context.Context, r model.DateRange, builderIDs []string) (map[string]model.BuilderAggregate, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if len(builderIDs) == 0 {
		ids, err := e.activeBuilderIDs(ctx)
		if err != nil {
			return nil, err
		}
		builderIDs = ids
	}
	if len(builderIDs) == 0 {
		return map[string]model.BuilderAggregate{}, nil
	}

	oracle, err := e.Oracle(ctx)
	if err != nil {
		return nil, err
	}
	records, err := e.records(ctx, r, builderIDs)
	if err != nil {
		return nil, err
	}
	return e.aggregator(oracle).ByBuilder(records, r, builderIDs)
}

// Report bundles the daily and builder views of r for active builders.
func (e *Engine) Report(ctx context.Context, r model.DateRange) (*model.Report, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	builders, err := e.storage.ListBuilders(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list builders: %w", err)
	}
	ids := make([]string, len(builders))
	names := make(map[string]string, len(builders))
	for i, b := range builders {
		ids[i] = b.ID
		names[b.ID] = b.Name
	}

	oracle, err := e.Oracle(ctx)
	if err != nil {
		return nil, err
	}
	agg := e.aggregator(oracle)

	report := &model.Report{Range: r, Names: names, Builders: []model.BuilderAggregate{}}
	if len(ids) == 0 {
		report.Daily, err = agg.ByDay(nil, r, nil)
		return report, err
	}

	records, err := e.records(ctx, r, ids)
	if err != nil {
		return nil, err
	}

	if report.Daily, err = agg.ByDay(records, r, ids); err != nil {
		return nil, err
	}
	byBuilder, err := agg.ByBuilder(records, r, ids)
	if err != nil {
		return nil, err
	}
	report.Builders = aggregate.Ranked(byBuilder)
	report.Totals = aggregate.Totals(report.Daily)

	slog.Debug("Built attendance report",
		"range", r.String(),
		"class_days", len(report.Daily),
		"builders", len(report.Builders))

	return report, nil
}

// CheckIn records a present check-in at the given instant and returns how it scores.
// The class date is the home-zone date of at.
func (e *Engine) CheckIn(ctx context.Context, builderID string, at time.Time) (model.Classification, error) {
	date := model.DateOf(at, e.Location())
	if err := e.requireClassDay(ctx, date); err != nil {
		return "", err
	}
	if err := e.requireActive(ctx, builderID); err != nil {
		return "", err
	}

	recorded := at
	rec := model.AttendanceRecord{
		BuilderID:    builderID,
		Date:         date,
		RawStatus:    model.StatusPresent,
		TimeRecorded: &recorded,
	}
	if err := e.SaveRecords(ctx, []model.AttendanceRecord{rec}); err != nil {
		return "", err
	}

	class, err := e.normalizer.Scored(rec)
	if err != nil {
		return "", err
	}

	slog.Info("Recorded check-in",
		"builder_id", builderID,
		"date", date.String(),
		"classification", string(class))

	return class, nil
}

// Excuse stores an excused absence for builderID on date.
func (e *Engine) Excuse(ctx context.Context, builderID string, date model.Date, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return common.ErrMissingReason
	}
	if err := e.requireClassDay(ctx, date); err != nil {
		return err
	}
	if err := e.requireActive(ctx, builderID); err != nil {
		return err
	}

	return e.SaveRecords(ctx, []model.AttendanceRecord{{
		BuilderID:    builderID,
		Date:         date,
		RawStatus:    model.StatusAbsent,
		ExcuseReason: reason,
	}})
}

// OpenDay creates pending rows for every active builder without a row on date.
func (e *Engine) OpenDay(ctx context.Context, date model.Date) (int64, error) {
	if err := e.requireClassDay(ctx, date); err != nil {
		return 0, err
	}
	ids, err := e.activeBuilderIDs(ctx)
	if err != nil {
		return 0, err
	}

	created, err := e.storage.CreatePendingRecords(ctx, date, ids)
	if err != nil {
		return 0, err
	}
	e.invalidate()

	slog.Info("Opened class day", "date", date.String(), "pending_created", created)
	return created, nil
}

// MarkPendingAbsent closes a past class day: every pending row becomes an
// unexcused absence. A checkpoint is taken first when a checkpointer is set.
func (e *Engine) MarkPendingAbsent(ctx context.Context, date model.Date) (int64, error) {
	if err := e.requireClassDay(ctx, date); err != nil {
		return 0, err
	}

	if e.checkpointer != nil {
		id, err := e.checkpointer.AutoCheckpoint(ctx, "correct")
		if err != nil {
			return 0, fmt.Errorf("failed to checkpoint before correction: %w", err)
		}
		slog.Info("Created checkpoint before correction", "checkpoint", id)
	}

	marked, err := e.storage.MarkPendingAbsent(ctx, date)
	if err != nil {
		return 0, err
	}
	e.invalidate()

	slog.Info("Marked pending records absent", "date", date.String(), "count", marked)
	return marked, nil
}

// SaveRecords validates and stores records, then drops cached reads.
func (e *Engine) SaveRecords(ctx context.Context, records []model.AttendanceRecord) error {
	if err := e.storage.SaveAttendance(ctx, records); err != nil {
		return err
	}
	e.invalidate()
	return nil
}

// HistoryEntry is one row of a builder's attendance history.
type HistoryEntry struct {
	TimeRecorded *time.Time
	Date         model.Date
	Label        string
	Display      model.DisplayStatus
	Excuse       string
}

// BuilderHistory returns the display status of every class-day record of
// builderID in r, oldest first.
func (e *Engine) BuilderHistory(ctx context.Context, builderID string, r model.DateRange) ([]HistoryEntry, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if _, err := e.storage.GetBuilder(ctx, builderID); err != nil {
		return nil, err
	}

	oracle, err := e.Oracle(ctx)
	if err != nil {
		return nil, err
	}
	records, err := e.records(ctx, r, []string{builderID})
	if err != nil {
		return nil, err
	}

	history := make([]HistoryEntry, 0, len(records))
	for _, rec := range records {
		if !oracle.IsClassDay(rec.Date) {
			slog.Debug("Skipping record on non-class day", "builder_id", builderID, "date", rec.Date.String())
			continue
		}
		display, err := e.normalizer.Display(rec)
		if err != nil {
			return nil, err
		}
		history = append(history, HistoryEntry{
			Date:         rec.Date,
			Label:        calendar.Label(rec.Date),
			Display:      display,
			TimeRecorded: rec.TimeRecorded,
			Excuse:       rec.ExcuseReason,
		})
	}
	return history, nil
}

func (e *Engine) requireClassDay(ctx context.Context, date model.Date) error {
	info, err := e.DescribeDay(ctx, date)
	if err != nil {
		return err
	}
	if !info.IsClassDay {
		return fmt.Errorf("%w: %s (%s)", common.ErrNotClassDay, date, info.Reason)
	}
	return nil
}

func (e *Engine) requireActive(ctx context.Context, builderID string) error {
	b, err := e.storage.GetBuilder(ctx, builderID)
	if err != nil {
		return err
	}
	if !b.Active {
		return fmt.Errorf("%w: %s", common.ErrInactiveBuilder, builderID)
	}
	return nil
}

func (e *Engine) activeBuilderIDs(ctx context.Context) ([]string, error) {
	builders, err := e.storage.ListBuilders(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list builders: %w", err)
	}
	ids := make([]string, len(builders))
	for i, b := range builders {
		ids[i] = b.ID
	}
	return ids, nil
}

// Refresh drops cached attendance so the next read sees writes made by
// other processes.
func (e *Engine) Refresh() {
	e.invalidate()
}

func (e *Engine) invalidate() {
	if e.cache != nil {
		e.cache.Invalidate()
	}
}
