package models

import (
	"fmt"
	"time"

	"github.com/zanzhit/camera_vault/internal/domain/errs"
)

const minutesPerDay = 24 * 60

// Schedule is one continuous-recording window for a camera. Weekday follows
// Go's time.Weekday numbering (Sunday = 0). StartMinute and EndMinute are
// minutes since midnight; the window is half-open, [start, end).
type Schedule struct {
	ScheduleID  int64        `json:"schedule_id" db:"id"`
	CameraID    int          `json:"camera_id" db:"camera_id"`
	Weekday     time.Weekday `json:"weekday" db:"weekday"`
	StartMinute int          `json:"start_minute" db:"start_minute"`
	EndMinute   int          `json:"end_minute" db:"end_minute"`
	Enabled     bool         `json:"enabled" db:"enabled"`
}

func NewSchedule(cameraID int, weekday time.Weekday, startMinute, endMinute int, enabled bool) (Schedule, error) {
	if weekday < time.Sunday || weekday > time.Saturday {
		return Schedule{}, fmt.Errorf("weekday %d is out of range: %w", weekday, errs.ErrInvalidSchedule)
	}

	if startMinute < 0 || endMinute > minutesPerDay || startMinute >= endMinute {
		return Schedule{}, fmt.Errorf("window [%d, %d) is not a valid time-of-day range: %w",
			startMinute, endMinute, errs.ErrInvalidSchedule)
	}

	return Schedule{
		CameraID:    cameraID,
		Weekday:     weekday,
		StartMinute: startMinute,
		EndMinute:   endMinute,
		Enabled:     enabled,
	}, nil
}

// IsActiveAt reports whether continuous recording should run at t.
// A timestamp exactly at EndMinute is not active, so adjacent windows
// never overlap.
func (s Schedule) IsActiveAt(t time.Time) bool {
	if !s.Enabled {
		return false
	}

	if t.Weekday() != s.Weekday {
		return false
	}

	minute := t.Hour()*60 + t.Minute()

	return s.StartMinute <= minute && minute < s.EndMinute
}
