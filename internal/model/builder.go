package model

import "time"

// Builder is a program participant whose attendance is tracked.
type Builder struct {
	CreatedAt time.Time
	ID        string
	Name      string
	Email     string
	Cohort    string
	Active    bool
}

// ExceptionKind distinguishes published holidays from cancelled sessions.
type ExceptionKind string

// Calendar exception kinds.
const (
	ExceptionHoliday   ExceptionKind = "holiday"
	ExceptionCancelled ExceptionKind = "cancelled"
)

// CalendarException removes a date from the class calendar.
type CalendarException struct {
	Date   Date
	Kind   ExceptionKind
	Reason string
}
