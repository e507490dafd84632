package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/builder-tracking/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrEmptySlice     = errors.New("slice cannot be empty")
	ErrInvalidRecord  = errors.New("invalid attendance record")
	ErrInvalidBuilder = errors.New("invalid builder")
	ErrInvalidKind    = errors.New("invalid calendar exception kind")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateDate(d model.Date, paramName string) error {
	if d.IsZero() {
		return fmt.Errorf("%w: %s", ErrNilParameter, paramName)
	}
	return nil
}

func validateBuilder(b *model.Builder) error {
	if b == nil {
		return fmt.Errorf("%w: builder", ErrNilParameter)
	}
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidBuilder)
	}
	return nil
}

// validateRecords checks every record before any row is written.
func validateRecords(records []model.AttendanceRecord) error {
	if records == nil {
		return fmt.Errorf("%w: records", ErrNilParameter)
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: records", ErrEmptySlice)
	}

	for i, rec := range records {
		if err := validateRecord(rec); err != nil {
			return fmt.Errorf("record at index %d: %w", i, err)
		}
	}
	return nil
}

func validateRecord(rec model.AttendanceRecord) error {
	if strings.TrimSpace(rec.BuilderID) == "" {
		return fmt.Errorf("%w: missing builder ID", ErrInvalidRecord)
	}
	if rec.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidRecord)
	}
	if !rec.RawStatus.Valid() {
		return &model.InvalidStatusError{
			Status:    string(rec.RawStatus),
			BuilderID: rec.BuilderID,
			Date:      rec.Date,
		}
	}
	return nil
}

func validateException(ex *model.CalendarException) error {
	if ex == nil {
		return fmt.Errorf("%w: exception", ErrNilParameter)
	}
	if err := validateDate(ex.Date, "date"); err != nil {
		return err
	}
	switch ex.Kind {
	case model.ExceptionHoliday, model.ExceptionCancelled:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidKind, ex.Kind)
}
