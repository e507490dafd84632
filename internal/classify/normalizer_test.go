package classify

import (
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/builder-tracking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizer(t *testing.T) {
	arrival := newDefaultArrival(t)
	n, err := NewNormalizer(arrival)
	require.NoError(t, err)
	ny := arrival.Location()

	saturday := model.MustParseDate("2025-03-15")
	early := saturday.In(ny, 9, 59, 0)
	late := saturday.In(ny, 10, 0, 0)

	tests := []struct {
		name        string
		record      model.AttendanceRecord
		wantScored  model.Classification
		wantDisplay model.DisplayStatus
	}{
		{
			name:        "present before cutoff",
			record:      model.AttendanceRecord{Date: saturday, RawStatus: model.StatusPresent, TimeRecorded: &early},
			wantScored:  model.ClassPresent,
			wantDisplay: model.DisplayPresent,
		},
		{
			name:        "present at cutoff becomes late",
			record:      model.AttendanceRecord{Date: saturday, RawStatus: model.StatusPresent, TimeRecorded: &late},
			wantScored:  model.ClassLate,
			wantDisplay: model.DisplayLate,
		},
		{
			name:        "present without timestamp stays present",
			record:      model.AttendanceRecord{Date: saturday, RawStatus: model.StatusPresent},
			wantScored:  model.ClassPresent,
			wantDisplay: model.DisplayPresent,
		},
		{
			name:        "stored late passes through even with early timestamp",
			record:      model.AttendanceRecord{Date: saturday, RawStatus: model.StatusLate, TimeRecorded: &early},
			wantScored:  model.ClassLate,
			wantDisplay: model.DisplayLate,
		},
		{
			name:        "absent with reason is excused",
			record:      model.AttendanceRecord{Date: saturday, RawStatus: model.StatusAbsent, ExcuseReason: "doctor"},
			wantScored:  model.ClassExcused,
			wantDisplay: model.DisplayExcused,
		},
		{
			name:        "absent without reason",
			record:      model.AttendanceRecord{Date: saturday, RawStatus: model.StatusAbsent},
			wantScored:  model.ClassAbsent,
			wantDisplay: model.DisplayAbsent,
		},
		{
			name:        "absent with blank reason",
			record:      model.AttendanceRecord{Date: saturday, RawStatus: model.StatusAbsent, ExcuseReason: "  "},
			wantScored:  model.ClassAbsent,
			wantDisplay: model.DisplayAbsent,
		},
		{
			name:        "pending scores absent but displays pending",
			record:      model.AttendanceRecord{Date: saturday, RawStatus: model.StatusPending},
			wantScored:  model.ClassAbsent,
			wantDisplay: model.DisplayPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scored, err := n.Scored(tt.record)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScored, scored)

			display, err := n.Display(tt.record)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDisplay, display)

			again, err := n.Scored(tt.record)
			require.NoError(t, err)
			assert.Equal(t, scored, again, "normalization must be deterministic")
		})
	}
}

func TestNormalizer_RejectsUnknownStatus(t *testing.T) {
	n, err := NewNormalizer(newDefaultArrival(t))
	require.NoError(t, err)
	rec := model.AttendanceRecord{
		BuilderID: "b-1",
		Date:      model.MustParseDate("2025-03-17"),
		RawStatus: model.RawStatus("excused"),
	}

	_, err = n.Scored(rec)
	require.Error(t, err)
	var statusErr *model.InvalidStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "excused", statusErr.Status)
	assert.Equal(t, "b-1", statusErr.BuilderID)

	_, err = n.Display(model.AttendanceRecord{})
	assert.ErrorIs(t, err, model.ErrInvalidStatus)
}

func TestNormalizer_LatenessUsesRecordDate(t *testing.T) {
	arrival := newDefaultArrival(t)
	n, err := NewNormalizer(arrival)
	require.NoError(t, err)

	// Monday session, checked in at 20:15 local which is already Tuesday in UTC.
	monday := model.MustParseDate("2025-03-17")
	recorded := time.Date(2025, 3, 18, 0, 15, 0, 0, time.UTC)
	rec := model.AttendanceRecord{Date: monday, RawStatus: model.StatusPresent, TimeRecorded: &recorded}

	got, err := n.Scored(rec)
	require.NoError(t, err)
	assert.Equal(t, model.ClassLate, got)
}

func TestNewNormalizer_RequiresClassifier(t *testing.T) {
	n, err := NewNormalizer(nil)
	require.ErrorIs(t, err, ErrMissingClassifier)
	assert.Nil(t, n)
}

func TestNormalizer_Location(t *testing.T) {
	arrival := newDefaultArrival(t)
	n, err := NewNormalizer(arrival)
	require.NoError(t, err)
	assert.Equal(t, arrival.Location(), n.Location())
}
