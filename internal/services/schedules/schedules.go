package scheduleservice

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/zanzhit/camera_vault/internal/domain/models"
	"github.com/zanzhit/camera_vault/internal/lib/sl"
)

// ScheduleEngine drives continuous ("normal") recording from timer windows.
// Every tick it evaluates all enabled schedules, starts capture for cameras
// entering a window and finalizes the segment for cameras leaving one.
type ScheduleEngine struct {
	log       *slog.Logger
	schedules ScheduleProvider
	configs   ConfigProvider
	recorder  Recorder
	sink      SegmentSink
	interval  time.Duration
	now       func() time.Time

	mu     sync.Mutex
	active map[int]activeRecording
}

type activeRecording struct {
	startTime time.Time
	quality   models.Quality
	cameraIP  string
	filePath  string
}

type ScheduleProvider interface {
	FindAll() ([]models.Schedule, error)
}

type ConfigProvider interface {
	CameraConfig(cameraID int) (models.CameraConfig, error)
}

type Recorder interface {
	StartContinuous(cameraIP string, quality models.Quality) (string, error)
	StopContinuous(cameraIP string) error
}

type SegmentSink interface {
	SaveNormal(seg models.Segment) (models.Segment, error)
}

func New(
	log *slog.Logger,
	schedules ScheduleProvider,
	configs ConfigProvider,
	recorder Recorder,
	sink SegmentSink,
	interval time.Duration,
) *ScheduleEngine {
	return &ScheduleEngine{
		log:       log,
		schedules: schedules,
		configs:   configs,
		recorder:  recorder,
		sink:      sink,
		interval:  interval,
		now:       time.Now,
		active:    make(map[int]activeRecording),
	}
}

// Run ticks until ctx is cancelled, then finalizes whatever is still
// recording so in-flight segments keep their actually captured duration.
func (e *ScheduleEngine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.Tick()

	for {
		select {
		case <-ctx.Done():
			e.Shutdown()

			return
		case <-ticker.C:
			e.Tick()
		}
	}
}

// Tick evaluates every camera's schedules against the current instant and
// applies the start/stop transitions.
func (e *ScheduleEngine) Tick() {
	const op = "service.schedules.Tick"

	log := e.log.With(slog.String("op", op))

	all, err := e.schedules.FindAll()
	if err != nil {
		log.Error("failed to load schedules", sl.Err(err))

		return
	}

	now := e.now()

	shouldRecord := make(map[int]bool)
	for _, sched := range all {
		if sched.IsActiveAt(now) {
			shouldRecord[sched.CameraID] = true
		} else if _, seen := shouldRecord[sched.CameraID]; !seen {
			shouldRecord[sched.CameraID] = false
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for cameraID, wanted := range shouldRecord {
		_, running := e.active[cameraID]

		switch {
		case wanted && !running:
			e.start(log, cameraID, now)
		case !wanted && running:
			e.stop(log, cameraID, now)
		}
	}

	// Cameras whose schedules were deleted mid-recording still get closed.
	for cameraID := range e.active {
		if _, seen := shouldRecord[cameraID]; !seen {
			e.stop(log, cameraID, now)
		}
	}
}

// Shutdown finalizes all in-flight recordings with the duration captured so
// far instead of dropping them.
func (e *ScheduleEngine) Shutdown() {
	const op = "service.schedules.Shutdown"

	log := e.log.With(slog.String("op", op))

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	for cameraID := range e.active {
		e.stop(log, cameraID, now)
	}
}

func (e *ScheduleEngine) start(log *slog.Logger, cameraID int, now time.Time) {
	cfg, err := e.configs.CameraConfig(cameraID)
	if err != nil {
		log.Error("failed to resolve camera configuration",
			slog.Int("camera_id", cameraID), sl.Err(err))

		return
	}

	filePath, err := e.recorder.StartContinuous(cfg.CameraIP, cfg.NormalQuality)
	if err != nil {
		log.Error("failed to start continuous recording",
			slog.Int("camera_id", cameraID), sl.Err(err))

		return
	}

	e.active[cameraID] = activeRecording{
		startTime: now,
		quality:   cfg.NormalQuality,
		cameraIP:  cfg.CameraIP,
		filePath:  filePath,
	}

	log.Info("continuous recording started", slog.Int("camera_id", cameraID))
}

func (e *ScheduleEngine) stop(log *slog.Logger, cameraID int, now time.Time) {
	rec, ok := e.active[cameraID]
	if !ok {
		return
	}

	delete(e.active, cameraID)

	if err := e.recorder.StopContinuous(rec.cameraIP); err != nil {
		log.Error("failed to stop continuous recording",
			slog.Int("camera_id", cameraID), sl.Err(err))
	}

	seg, err := models.NewSegment(cameraID, rec.startTime, now, models.CategoryNormal, rec.quality)
	if err != nil {
		log.Error("failed to build segment",
			slog.Int("camera_id", cameraID), sl.Err(err))

		return
	}

	seg.FilePath = rec.filePath

	saved, err := e.sink.SaveNormal(seg)
	if err != nil {
		log.Error("failed to persist segment",
			slog.Int("camera_id", cameraID), sl.Err(err))

		return
	}

	log.Info("continuous recording stopped",
		slog.Int("camera_id", cameraID),
		slog.Int64("segment_id", saved.ID),
		slog.String("duration", saved.Duration().String()),
	)
}
