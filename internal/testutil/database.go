// Package testutil provides test databases seeded with a builder roster.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/builder-tracking/internal/model"
	"github.com/Veraticus/builder-tracking/internal/storage"
)

// TestDB is a migrated in-memory database plus the roster seeded into it.
type TestDB struct {
	Storage  *storage.SQLiteStorage
	t        *testing.T
	Builders Roster
}

// SetupTestDB creates a migrated in-memory database and seeds roster into it.
// The database is closed when the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t, testutil.NewRoster().
//		WithBuilders("b-1", "b-2").
//		WithInactive("b-3"))
func SetupTestDB(t *testing.T, roster *RosterBuilder) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	var seeded Roster
	if roster != nil {
		seeded, err = roster.Build(ctx, store)
		if err != nil {
			t.Fatalf("failed to seed roster: %v", err)
		}
	}

	return &TestDB{Storage: store, Builders: seeded, t: t}
}

// Record stores one attendance row or fails the test.
func (db *TestDB) Record(builderID, date string, status model.RawStatus) {
	db.t.Helper()
	db.save(model.AttendanceRecord{BuilderID: builderID, Date: model.MustParseDate(date), RawStatus: status})
}

// CheckIn stores a present row with the given arrival time or fails the test.
func (db *TestDB) CheckIn(builderID, date string, at time.Time) {
	db.t.Helper()
	db.save(model.AttendanceRecord{
		BuilderID:    builderID,
		Date:         model.MustParseDate(date),
		RawStatus:    model.StatusPresent,
		TimeRecorded: &at,
	})
}

// Excuse stores an absent row with a reason or fails the test.
func (db *TestDB) Excuse(builderID, date, reason string) {
	db.t.Helper()
	db.save(model.AttendanceRecord{
		BuilderID:    builderID,
		Date:         model.MustParseDate(date),
		RawStatus:    model.StatusAbsent,
		ExcuseReason: reason,
	})
}

func (db *TestDB) save(rec model.AttendanceRecord) {
	db.t.Helper()
	if err := db.Storage.SaveAttendance(context.Background(), []model.AttendanceRecord{rec}); err != nil {
		db.t.Fatalf("failed to save attendance for %s on %s: %v", rec.BuilderID, rec.Date, err)
	}
}
