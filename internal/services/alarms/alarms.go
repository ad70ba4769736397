package alarmservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/zanzhit/camera_vault/internal/domain/errs"
	"github.com/zanzhit/camera_vault/internal/domain/models"
	"github.com/zanzhit/camera_vault/internal/lib/sizing"
	"github.com/zanzhit/camera_vault/internal/lib/sl"
	policyservice "github.com/zanzhit/camera_vault/internal/services/policy"
)

// AlarmService runs the alarm-recording workflow end to end: resolve the
// camera configuration, capture pre-roll, command the recording, make room
// on the volume if needed and persist the segment metadata. It is the only
// component that mutates the segment repository.
type AlarmService struct {
	log             *slog.Logger
	policy          policyservice.StoragePolicy
	segments        SegmentRepository
	configs         ConfigProvider
	hardware        Hardware
	volume          Volume
	notifier        Notifier
	hardwareTimeout time.Duration

	// mu serializes snapshot -> decide -> delete -> persist for the volume
	// this service owns. Without it two concurrent alarms can pick the same
	// eviction victim or both pass a capacity check that only holds alone.
	mu sync.Mutex
}

type SegmentRepository interface {
	FindAll() ([]models.Segment, error)
	Segment(segmentID int64) (models.Segment, error)
	Save(seg models.Segment) (models.Segment, error)
	Delete(segmentID int64) error
}

type ConfigProvider interface {
	CameraConfig(cameraID int) (models.CameraConfig, error)
}

// Hardware deals in media paths: CapturePreRoll returns the buffered
// footage, StartRecording returns where the finished clip will live, and
// DeleteMedia removes a clip the retention policy has given up.
type Hardware interface {
	CapturePreRoll(ctx context.Context, cameraIP string, seconds int) (string, error)
	StartRecording(cameraIP string, quality models.Quality, seconds int, preRoll string) (string, error)
	DeleteMedia(filePath string) error
}

type Volume interface {
	CapacityBytes() (int64, error)
	FreeBytes() (int64, error)
}

type Notifier interface {
	Notify(cameraID int, segmentID int64) error
}

func New(
	log *slog.Logger,
	policy policyservice.StoragePolicy,
	segments SegmentRepository,
	configs ConfigProvider,
	hardware Hardware,
	volume Volume,
	notifier Notifier,
	hardwareTimeout time.Duration,
) *AlarmService {
	return &AlarmService{
		log:             log,
		policy:          policy,
		segments:        segments,
		configs:         configs,
		hardware:        hardware,
		volume:          volume,
		notifier:        notifier,
		hardwareTimeout: hardwareTimeout,
	}
}

// HandleAlarm records an alarm clip spanning the configured pre-roll before
// eventTime and post-roll after it. The returned segment carries the
// repository-assigned identifier.
func (s *AlarmService) HandleAlarm(ctx context.Context, cameraID int, eventTime time.Time) (models.Segment, error) {
	const op = "service.alarms.HandleAlarm"

	log := s.log.With(
		slog.String("op", op),
		slog.Int("camera_id", cameraID),
		slog.Time("event_time", eventTime),
	)

	cfg, err := s.configs.CameraConfig(cameraID)
	if err != nil {
		log.Error("failed to resolve camera configuration", sl.Err(err))

		return models.Segment{}, fmt.Errorf("%s: %w", op, err)
	}

	preRollCtx, cancel := context.WithTimeout(ctx, s.hardwareTimeout)
	defer cancel()

	buffer, err := s.hardware.CapturePreRoll(preRollCtx, cfg.CameraIP, cfg.PreRecordSec)
	if err != nil {
		log.Error("failed to capture pre-roll", sl.Err(err))

		return models.Segment{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("pre-roll captured", slog.String("buffer", buffer))

	// Fire and forget: the hardware layer finishes the capture in the
	// background and folds the pre-roll buffer into the clip; this
	// workflow does not wait for it.
	mediaPath, err := s.hardware.StartRecording(cfg.CameraIP, cfg.AlarmQuality, cfg.PostRecordSec, buffer)
	if err != nil {
		log.Error("failed to start recording", sl.Err(err))

		return models.Segment{}, fmt.Errorf("%s: %w", op, err)
	}

	seg, err := models.NewSegment(
		cameraID,
		eventTime.Add(-time.Duration(cfg.PreRecordSec)*time.Second),
		eventTime.Add(time.Duration(cfg.PostRecordSec)*time.Second),
		models.CategoryAlarm,
		cfg.AlarmQuality,
	)
	if err != nil {
		return models.Segment{}, fmt.Errorf("%s: %w", op, err)
	}

	seg.FilePath = mediaPath

	saved, err := s.persistWithEviction(log, seg)
	if err != nil {
		return models.Segment{}, fmt.Errorf("%s: %w", op, err)
	}

	s.notify(log, saved)

	return saved, nil
}

// StartEmergency opens a protected recording. Admission is decided by the
// storage policy against the reserved emergency area; denial is a normal
// negative outcome, not a technical failure.
func (s *AlarmService) StartEmergency(ctx context.Context, cameraID int, start, end time.Time) (models.Segment, error) {
	const op = "service.alarms.StartEmergency"

	log := s.log.With(
		slog.String("op", op),
		slog.Int("camera_id", cameraID),
	)

	cfg, err := s.configs.CameraConfig(cameraID)
	if err != nil {
		log.Error("failed to resolve camera configuration", sl.Err(err))

		return models.Segment{}, fmt.Errorf("%s: %w", op, err)
	}

	seg, err := models.NewSegment(cameraID, start, end, models.CategoryEmergency, cfg.AlarmQuality)
	if err != nil {
		return models.Segment{}, fmt.Errorf("%s: %w", op, err)
	}

	capacity, err := s.volume.CapacityBytes()
	if err != nil {
		log.Error("failed to read volume capacity", sl.Err(err))

		return models.Segment{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.segments.FindAll()
	if err != nil {
		log.Error("failed to snapshot segments", sl.Err(err))

		return models.Segment{}, fmt.Errorf("%s: %w", op, err)
	}

	if !s.policy.CanAdmitEmergency(snapshot, capacity, sizing.EstimateBytes(seg)) {
		log.Warn("emergency recording denied by quota")

		return models.Segment{}, fmt.Errorf("%s: %w", op, errs.ErrEmergencyQuotaExceeded)
	}

	duration := int(end.Sub(start).Seconds())

	mediaPath, err := s.hardware.StartRecording(cfg.CameraIP, cfg.AlarmQuality, duration, "")
	if err != nil {
		log.Error("failed to start recording", sl.Err(err))

		return models.Segment{}, fmt.Errorf("%s: %w", op, err)
	}

	seg.FilePath = mediaPath

	saved, err := s.segments.Save(seg)
	if err != nil {
		log.Error("failed to persist segment", sl.Err(err))

		return models.Segment{}, errs.ErrWriteToDB
	}

	s.notify(log, saved)

	return saved, nil
}

// Purge removes a segment and its media outside the eviction policy. This
// is the explicit external deletion path; protected segments may be purged
// here, only automatic eviction must never touch them.
func (s *AlarmService) Purge(segmentID int64) error {
	const op = "service.alarms.Purge"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("segment_id", segmentID),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	seg, err := s.segments.Segment(segmentID)
	if err != nil {
		log.Error("failed to look up segment", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.segments.Delete(segmentID); err != nil {
		log.Error("failed to delete segment", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.hardware.DeleteMedia(seg.FilePath); err != nil {
		log.Error("failed to delete media", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("segment purged")

	return nil
}

// SaveNormal persists a finished continuous-recording segment, evicting if
// the volume is low. The schedule engine goes through here so that all
// repository mutation stays behind one lock.
func (s *AlarmService) SaveNormal(seg models.Segment) (models.Segment, error) {
	const op = "service.alarms.SaveNormal"

	log := s.log.With(
		slog.String("op", op),
		slog.Int("camera_id", seg.CameraID),
	)

	saved, err := s.persistWithEviction(log, seg)
	if err != nil {
		return models.Segment{}, fmt.Errorf("%s: %w", op, err)
	}

	s.notify(log, saved)

	return saved, nil
}

func (s *AlarmService) Segments() ([]models.Segment, error) {
	const op = "service.alarms.Segments"

	segs, err := s.segments.FindAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return segs, nil
}

// persistWithEviction holds the volume lock across the whole
// snapshot -> select -> delete -> save sequence. The recording already in
// flight is not stopped when this fails; a supervising layer has to deal
// with the orphaned capture.
func (s *AlarmService) persistWithEviction(log *slog.Logger, seg models.Segment) (models.Segment, error) {
	needed := sizing.EstimateBytes(seg)

	free, err := s.volume.FreeBytes()
	if err != nil {
		log.Error("failed to read free space", sl.Err(err))

		return models.Segment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if free < needed {
		snapshot, err := s.segments.FindAll()
		if err != nil {
			log.Error("failed to snapshot segments", sl.Err(err))

			return models.Segment{}, err
		}

		victim, ok := s.policy.SelectEvictionCandidate(snapshot)
		if !ok {
			log.Error("no eviction candidate, storage full")

			return models.Segment{}, errs.ErrStorageFull
		}

		log.Info("evicting segment",
			slog.Int64("segment_id", victim.ID),
			slog.Time("start_time", victim.StartTime),
		)

		if err := s.segments.Delete(victim.ID); err != nil {
			log.Error("failed to delete evicted segment", sl.Err(err))

			return models.Segment{}, err
		}

		if err := s.hardware.DeleteMedia(victim.FilePath); err != nil {
			log.Error("failed to delete evicted media", sl.Err(err))

			return models.Segment{}, err
		}
	}

	saved, err := s.segments.Save(seg)
	if err != nil {
		log.Error("failed to persist segment", sl.Err(err))

		return models.Segment{}, errs.ErrWriteToDB
	}

	return saved, nil
}

// notify is best effort: a dead sink never rolls back a persisted segment.
func (s *AlarmService) notify(log *slog.Logger, seg models.Segment) {
	if err := s.notifier.Notify(seg.CameraID, seg.ID); err != nil {
		log.Warn("failed to notify", sl.Err(err))
	}
}
