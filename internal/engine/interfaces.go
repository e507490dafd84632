package engine

import (
	"github.com/Veraticus/builder-tracking/internal/service"
)

// CachingReader is an attendance reader whose results can be dropped after writes.
type CachingReader interface {
	service.AttendanceReader
	Invalidate()
}
