package model

import (
	"errors"
	"fmt"
)

// Engine error sentinels. The typed errors below wrap them so callers can use
// either errors.Is or errors.As.
var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrInvalidStatus    = errors.New("invalid attendance status")
	ErrDuplicateRecord  = errors.New("duplicate attendance record")
)

// InvalidDateError reports a date string that is not a YYYY-MM-DD calendar date.
type InvalidDateError struct {
	Input  string
	Reason string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: %s", e.Input, e.Reason)
}

func (e *InvalidDateError) Unwrap() error { return ErrInvalidDate }

// InvalidStatusError reports a raw status outside the known vocabulary.
type InvalidStatusError struct {
	Status    string
	BuilderID string
	Date      Date
}

func (e *InvalidStatusError) Error() string {
	if e.BuilderID == "" {
		return fmt.Sprintf("invalid attendance status %q", e.Status)
	}
	return fmt.Sprintf("invalid attendance status %q for builder %s on %s", e.Status, e.BuilderID, e.Date)
}

func (e *InvalidStatusError) Unwrap() error { return ErrInvalidStatus }

// DuplicateRecordError reports two rows for the same builder and date.
// It is only returned in strict mode; otherwise duplicates are counted twice.
type DuplicateRecordError struct {
	BuilderID string
	Date      Date
}

func (e *DuplicateRecordError) Error() string {
	return fmt.Sprintf("duplicate attendance record for builder %s on %s", e.BuilderID, e.Date)
}

func (e *DuplicateRecordError) Unwrap() error { return ErrDuplicateRecord }
