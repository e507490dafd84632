package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/builder-tracking/internal/config"
	"github.com/Veraticus/builder-tracking/internal/engine"
	"github.com/Veraticus/builder-tracking/internal/model"
	"github.com/Veraticus/builder-tracking/internal/storage"
)

const (
	cacheTTL     = 30 * time.Second
	cacheJanitor = time.Minute
)

// initStorage opens the configured database and runs migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath(viper.GetViper())

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// app bundles the storage, record cache and engine a command works with.
type app struct {
	store  *storage.SQLiteStorage
	cache  *storage.RecordCache
	engine *engine.Engine
}

func openApp(ctx context.Context) (*app, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}

	eng, cache, err := newEngine(store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &app{store: store, cache: cache, engine: eng}, nil
}

func (a *app) Close() {
	a.cache.Close()
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

// newEngine builds the engine from the program config. Reads go through a
// short-lived record cache and bulk corrections are checkpointed when the
// database lives on disk.
func newEngine(store *storage.SQLiteStorage) (*engine.Engine, *storage.RecordCache, error) {
	program, err := config.LoadProgramConfig()
	if err != nil {
		return nil, nil, err
	}
	cal, err := program.CalendarConfig()
	if err != nil {
		return nil, nil, err
	}
	arrival, err := program.ArrivalConfig()
	if err != nil {
		return nil, nil, err
	}

	cache := storage.NewRecordCache(cacheTTL, cacheJanitor)
	opts := []engine.Option{engine.WithCache(storage.NewCachedReader(store, cache))}

	manager, err := store.NewCheckpointManager()
	switch {
	case err == nil:
		opts = append(opts, engine.WithCheckpointer(manager))
	case errors.Is(err, storage.ErrInMemoryDatabase):
		slog.Debug("Checkpoints disabled for in-memory database")
	default:
		cache.Close()
		return nil, nil, fmt.Errorf("failed to create checkpoint manager: %w", err)
	}

	eng, err := engine.New(store, engine.Config{
		Arrival:          arrival,
		Calendar:         cal,
		StrictDuplicates: program.StrictDuplicates,
	}, opts...)
	if err != nil {
		cache.Close()
		return nil, nil, err
	}

	return eng, cache, nil
}

// parseDay accepts YYYY-MM-DD or "today" (in the program time zone).
func parseDay(e *engine.Engine, s string) (model.Date, error) {
	if s == "" || strings.EqualFold(s, "today") {
		return e.Today(), nil
	}
	if strings.EqualFold(s, "yesterday") {
		return e.Today().AddDays(-1), nil
	}
	return model.ParseDate(s)
}

// rangeFlags are the --from/--to flags shared by the report commands.
type rangeFlags struct {
	from string
	to   string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "first date of the range (default: program start)")
	cmd.Flags().StringVar(&f.to, "to", "", "last date of the range (default: today)")
}

// resolve fills missing bounds with the program start and today.
func (f *rangeFlags) resolve(ctx context.Context, e *engine.Engine) (model.DateRange, error) {
	var r model.DateRange

	if f.from == "" {
		oracle, err := e.Oracle(ctx)
		if err != nil {
			return r, err
		}
		r.Start = oracle.ProgramStart()
	} else {
		d, err := parseDay(e, f.from)
		if err != nil {
			return r, fmt.Errorf("invalid --from: %w", err)
		}
		r.Start = d
	}

	end, err := parseDay(e, f.to)
	if err != nil {
		return r, fmt.Errorf("invalid --to: %w", err)
	}
	r.End = end

	if err := r.Validate(); err != nil {
		return r, err
	}
	return r, nil
}

func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

func formatRelativeTime(t, now time.Time) string {
	d := now.Sub(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		if m := int(d.Minutes()); m != 1 {
			return fmt.Sprintf("%d minutes ago", m)
		}
		return "1 minute ago"
	case d < 24*time.Hour:
		if h := int(d.Hours()); h != 1 {
			return fmt.Sprintf("%d hours ago", h)
		}
		return "1 hour ago"
	case d < 7*24*time.Hour:
		if days := int(d.Hours() / 24); days != 1 {
			return fmt.Sprintf("%d days ago", days)
		}
		return "yesterday"
	default:
		return t.Format("2006-01-02 15:04")
	}
}
