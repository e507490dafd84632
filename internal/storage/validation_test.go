package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/builder-tracking/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{name: "valid context", ctx: context.Background()},
		{name: "nil context", ctx: nil, wantErr: true},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNilContext)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateString(t *testing.T) {
	assert.NoError(t, validateString("b-1", "id"))
	assert.ErrorIs(t, validateString("", "id"), ErrEmptyString)
	assert.ErrorIs(t, validateString(" \t", "id"), ErrEmptyString)
}

func TestValidateRecord(t *testing.T) {
	sat := model.MustParseDate("2025-03-15")

	tests := []struct {
		target error
		name   string
		record model.AttendanceRecord
	}{
		{name: "valid", record: model.AttendanceRecord{BuilderID: "b-1", Date: sat, RawStatus: model.StatusPending}},
		{name: "status is case insensitive", record: model.AttendanceRecord{BuilderID: "b-1", Date: sat, RawStatus: "LATE"}},
		{name: "missing builder", record: model.AttendanceRecord{Date: sat, RawStatus: model.StatusPresent}, target: ErrInvalidRecord},
		{name: "missing date", record: model.AttendanceRecord{BuilderID: "b-1", RawStatus: model.StatusPresent}, target: ErrInvalidRecord},
		{name: "excused is not a raw status", record: model.AttendanceRecord{BuilderID: "b-1", Date: sat, RawStatus: "excused"}, target: model.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRecord(tt.record)
			if tt.target == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestValidateException(t *testing.T) {
	d := model.MustParseDate("2025-07-04")

	assert.NoError(t, validateException(&model.CalendarException{Date: d, Kind: model.ExceptionHoliday}))
	assert.ErrorIs(t, validateException(nil), ErrNilParameter)
	assert.ErrorIs(t, validateException(&model.CalendarException{Kind: model.ExceptionHoliday}), ErrNilParameter)
	assert.ErrorIs(t, validateException(&model.CalendarException{Date: d, Kind: "vacation"}), ErrInvalidKind)
}
