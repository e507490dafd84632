// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/builder-tracking/internal/model"
)

// AttendanceFilter defines filtering options for attendance queries.
// Zero values mean "no restriction".
type AttendanceFilter struct {
	Range      *model.DateRange
	BuilderIDs []string
	Status     model.RawStatus
	Limit      int
}

// AttendanceReader is the read side the report engine depends on.
type AttendanceReader interface {
	GetAttendance(ctx context.Context, filter AttendanceFilter) ([]model.AttendanceRecord, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	AttendanceReader

	// Builder operations
	CreateBuilder(ctx context.Context, builder *model.Builder) error
	GetBuilder(ctx context.Context, id string) (*model.Builder, error)
	ListBuilders(ctx context.Context, activeOnly bool) ([]model.Builder, error)
	SetBuilderActive(ctx context.Context, id string, active bool) error

	// Attendance operations
	SaveAttendance(ctx context.Context, records []model.AttendanceRecord) error
	CreatePendingRecords(ctx context.Context, date model.Date, builderIDs []string) (int64, error)
	MarkPendingAbsent(ctx context.Context, date model.Date) (int64, error)

	// Calendar exceptions
	SaveCalendarException(ctx context.Context, exception *model.CalendarException) error
	DeleteCalendarException(ctx context.Context, date model.Date) error
	ListCalendarExceptions(ctx context.Context) ([]model.CalendarException, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Checkpointer snapshots the database before destructive operations.
type Checkpointer interface {
	AutoCheckpoint(ctx context.Context, command string) (string, error)
}

// ReportWriter exports a finished report to an external destination.
type ReportWriter interface {
	Write(ctx context.Context, report *model.Report) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
