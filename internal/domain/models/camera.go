package models

import (
	"fmt"

	"github.com/zanzhit/camera_vault/internal/domain/errs"
)

const (
	MinCameraID = 1
	MaxCameraID = 16
)

// CameraConfig holds per-camera recording settings. It is validated once,
// here, at construction; no other component re-checks these fields.
// Changing settings means constructing a new value.
type CameraConfig struct {
	CameraID      int     `json:"camera_id" db:"camera_id"`
	CameraIP      string  `json:"camera_ip" db:"camera_ip"`
	NormalQuality Quality `json:"normal_quality"`
	AlarmQuality  Quality `json:"alarm_quality"`
	PreRecordSec  int     `json:"pre_record_sec" db:"pre_record_sec"`
	PostRecordSec int     `json:"post_record_sec" db:"post_record_sec"`
}

func NewCameraConfig(cameraID int, cameraIP string, normal, alarm Quality, preRecordSec, postRecordSec int) (CameraConfig, error) {
	if cameraID < MinCameraID || cameraID > MaxCameraID {
		return CameraConfig{}, fmt.Errorf("camera_id %d is out of range [%d, %d]: %w",
			cameraID, MinCameraID, MaxCameraID, errs.ErrInvalidCameraConfig)
	}

	switch preRecordSec {
	case 5, 10:
	default:
		return CameraConfig{}, fmt.Errorf("pre_record_sec %d is not one of {5, 10}: %w",
			preRecordSec, errs.ErrInvalidCameraConfig)
	}

	switch postRecordSec {
	case 10, 20, 30:
	default:
		return CameraConfig{}, fmt.Errorf("post_record_sec %d is not one of {10, 20, 30}: %w",
			postRecordSec, errs.ErrInvalidCameraConfig)
	}

	return CameraConfig{
		CameraID:      cameraID,
		CameraIP:      cameraIP,
		NormalQuality: normal,
		AlarmQuality:  alarm,
		PreRecordSec:  preRecordSec,
		PostRecordSec: postRecordSec,
	}, nil
}
