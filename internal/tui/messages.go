package tui

import (
	"time"

	"github.com/Veraticus/builder-tracking/internal/model"
)

type reportLoadedMsg struct {
	loadedAt time.Time
	report   *model.Report
	err      error
}
