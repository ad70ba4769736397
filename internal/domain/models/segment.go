package models

import (
	"fmt"
	"time"

	"github.com/zanzhit/camera_vault/internal/domain/errs"
)

type Category string

const (
	CategoryNormal    Category = "normal"
	CategoryAlarm     Category = "alarm"
	CategoryEmergency Category = "emergency"
)

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryNormal, CategoryAlarm, CategoryEmergency:
		return Category(s), nil
	}

	return "", fmt.Errorf("unknown category %q: %w", s, errs.ErrInvalidCategory)
}

// Segment describes one recorded clip. ID is zero until the repository
// assigns it on save. FilePath points at the media on the volume; eviction
// and purge remove that file together with the metadata.
type Segment struct {
	ID        int64     `json:"segment_id" db:"id"`
	CameraID  int       `json:"camera_id" db:"camera_id"`
	StartTime time.Time `json:"start_time" db:"start_time"`
	EndTime   time.Time `json:"end_time" db:"end_time"`
	Category  Category  `json:"category" db:"category"`
	Quality   Quality   `json:"quality"`
	FilePath  string    `json:"-" db:"file_path"`
}

func NewSegment(cameraID int, start, end time.Time, category Category, quality Quality) (Segment, error) {
	if !end.After(start) {
		return Segment{}, fmt.Errorf("end %s is not after start %s: %w", end, start, errs.ErrInvalidTimeRange)
	}

	return Segment{
		CameraID:  cameraID,
		StartTime: start,
		EndTime:   end,
		Category:  category,
		Quality:   quality,
	}, nil
}

// IsProtected reports whether the eviction policy may never select this
// segment. Derived from the category on every call, never stored.
func (s Segment) IsProtected() bool {
	return s.Category == CategoryEmergency
}

func (s Segment) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
