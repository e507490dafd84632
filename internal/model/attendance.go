package model

import (
	"strings"
	"time"
)

// RawStatus is the status as persisted by the store.
type RawStatus string

// Raw status vocabulary. Excused absences are stored as StatusAbsent plus a reason.
const (
	StatusPresent RawStatus = "present"
	StatusAbsent  RawStatus = "absent"
	StatusPending RawStatus = "pending"
	StatusLate    RawStatus = "late"
)

// ParseRawStatus validates s against the raw vocabulary.
// Unknown values are rejected rather than defaulted.
func ParseRawStatus(s string) (RawStatus, error) {
	switch status := RawStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case StatusPresent, StatusAbsent, StatusPending, StatusLate:
		return status, nil
	default:
		return "", &InvalidStatusError{Status: s}
	}
}

// Valid reports whether s belongs to the raw vocabulary.
func (s RawStatus) Valid() bool {
	_, err := ParseRawStatus(string(s))
	return err == nil
}

// Classification is the scored, four-way view of a record.
type Classification string

// Scored classifications.
const (
	ClassPresent Classification = "present"
	ClassLate    Classification = "late"
	ClassAbsent  Classification = "absent"
	ClassExcused Classification = "excused"
)

// Classifications lists the scored values in display order.
var Classifications = []Classification{ClassPresent, ClassLate, ClassAbsent, ClassExcused}

// Attended reports whether the classification counts toward the attendance rate.
func (c Classification) Attended() bool {
	return c == ClassPresent || c == ClassLate
}

// DisplayStatus is the UI view of a record. It keeps pending distinct.
type DisplayStatus string

// Display statuses.
const (
	DisplayPresent DisplayStatus = "present"
	DisplayLate    DisplayStatus = "late"
	DisplayAbsent  DisplayStatus = "absent"
	DisplayExcused DisplayStatus = "excused"
	DisplayPending DisplayStatus = "pending"
)

// RecordKey identifies the (builder, date) pair a record belongs to.
type RecordKey struct {
	BuilderID string
	Date      Date
}

// AttendanceRecord is one stored row for a builder on a date.
type AttendanceRecord struct {
	TimeRecorded *time.Time
	BuilderID    string
	RawStatus    RawStatus
	ExcuseReason string
	Date         Date
}

// Key returns the uniqueness key of the record.
func (r AttendanceRecord) Key() RecordKey {
	return RecordKey{BuilderID: r.BuilderID, Date: r.Date}
}

// HasExcuse reports whether a non-blank excuse reason is attached.
func (r AttendanceRecord) HasExcuse() bool {
	return strings.TrimSpace(r.ExcuseReason) != ""
}
