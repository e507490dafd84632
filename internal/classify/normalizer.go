package classify

import (
	"errors"
	"time"

	"github.com/Veraticus/builder-tracking/internal/model"
)

// ErrMissingClassifier is returned when a normalizer is built without an arrival classifier.
var ErrMissingClassifier = errors.New("normalizer requires an arrival classifier")

// Normalizer is the single place that expands raw stored statuses into the
// four scored classifications and the display statuses.
type Normalizer struct {
	arrival *ArrivalClassifier
}

// NewNormalizer creates a normalizer that re-derives lateness with arrival.
func NewNormalizer(arrival *ArrivalClassifier) (*Normalizer, error) {
	if arrival == nil {
		return nil, ErrMissingClassifier
	}
	return &Normalizer{arrival: arrival}, nil
}

// Location returns the zone lateness is judged in.
func (n *Normalizer) Location() *time.Location {
	return n.arrival.Location()
}

// Scored returns the classification used for rates and counts.
// Pending rows count as absent.
func (n *Normalizer) Scored(rec model.AttendanceRecord) (model.Classification, error) {
	display, err := n.Display(rec)
	if err != nil {
		return "", err
	}
	if display == model.DisplayPending {
		return model.ClassAbsent, nil
	}
	return model.Classification(display), nil
}

// Display returns the classification shown in UI states. Pending stays pending.
func (n *Normalizer) Display(rec model.AttendanceRecord) (model.DisplayStatus, error) {
	switch rec.RawStatus {
	case model.StatusPresent:
		if rec.TimeRecorded == nil {
			return model.DisplayPresent, nil
		}
		if n.arrival.Classify(rec.Date, *rec.TimeRecorded) == Late {
			return model.DisplayLate, nil
		}
		return model.DisplayPresent, nil
	case model.StatusLate:
		return model.DisplayLate, nil
	case model.StatusAbsent:
		if rec.HasExcuse() {
			return model.DisplayExcused, nil
		}
		return model.DisplayAbsent, nil
	case model.StatusPending:
		return model.DisplayPending, nil
	default:
		return "", &model.InvalidStatusError{
			Status:    string(rec.RawStatus),
			BuilderID: rec.BuilderID,
			Date:      rec.Date,
		}
	}
}
