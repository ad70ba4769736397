// Package gstreamer talks to the cameras: pre-roll capture, timed and
// continuous recording through gst-launch pipelines, media removal. It is
// one implementation of the hardware boundary the retention core consumes.
package gstreamer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aler9/gortsplib"
	"github.com/aler9/gortsplib/pkg/url"
	"github.com/lithammer/shortuuid/v3"

	"github.com/zanzhit/camera_vault/internal/domain/errs"
	"github.com/zanzhit/camera_vault/internal/domain/models"
	"github.com/zanzhit/camera_vault/internal/lib/sl"
)

type Hardware struct {
	log       *slog.Logger
	mediaPath string

	mu       sync.Mutex
	commands map[string]*exec.Cmd
}

func New(log *slog.Logger, mediaPath string) *Hardware {
	return &Hardware{
		log:       log,
		mediaPath: mediaPath,
		commands:  make(map[string]*exec.Cmd),
	}
}

// CapturePreRoll pulls the ring-buffered last seconds from the camera and
// returns the path of the buffered footage. Bounded by ctx; an offline
// camera or an expired deadline is a hardware error.
func (h *Hardware) CapturePreRoll(ctx context.Context, cameraIP string, seconds int) (string, error) {
	const op = "hardware.gstreamer.CapturePreRoll"

	log := h.log.With(
		slog.String("op", op),
		slog.String("camera_ip", cameraIP),
	)

	available, err := isCameraAvailable(cameraIP)
	if err != nil {
		log.Error("failed to check camera availability", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if !available {
		log.Error("camera is not available")

		return "", fmt.Errorf("%s: %w", op, errs.ErrCameraIsNotAvailable)
	}

	bufferPath := filepath.Join(h.mediaPath, "preroll", shortuuid.New()+".mkv")

	if err := os.MkdirAll(filepath.Dir(bufferPath), os.ModePerm); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	pipeline := fmt.Sprintf(
		"gst-launch-1.0 rtspsrc location=%s buffer-mode=buffer latency=%d ! rtph264depay ! h264parse ! matroskamux ! filesink location=%s",
		cameraIP, seconds*1000, bufferPath)

	parametres := strings.Split(pipeline, " ")

	cmd := exec.CommandContext(ctx, parametres[0], parametres[1:]...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			log.Error("pre-roll capture timed out", sl.Err(ctx.Err()))

			return "", fmt.Errorf("%s: %w", op, errs.ErrHardwareTimeout)
		}

		log.Error("failed to capture pre-roll", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return bufferPath, nil
}

// StartRecording kicks off a capture of the given length and returns the
// final media path as soon as the pipeline is spawned. The process
// finishes on its own; when a pre-roll buffer is given, it is folded into
// the front of the clip in the background and removed.
func (h *Hardware) StartRecording(cameraIP string, quality models.Quality, seconds int, preRoll string) (string, error) {
	const op = "hardware.gstreamer.StartRecording"

	log := h.log.With(
		slog.String("op", op),
		slog.String("camera_ip", cameraIP),
	)

	filePath := filepath.Join(h.mediaPath,
		fmt.Sprintf("%s_%s.mkv", shortuuid.New(), time.Now().Format("2006-01-02_15-04-05")))

	capturePath := filePath
	if preRoll != "" {
		capturePath = filePath + ".part"
	}

	pipeline := fmt.Sprintf(
		"gst-launch-1.0 rtspsrc location=%s num-buffers=%d ! rtph264depay ! h264parse ! video/x-h264,framerate=%d/1 ! matroskamux ! filesink location=%s",
		cameraIP, seconds*quality.FPS, quality.FPS, capturePath)

	parametres := strings.Split(pipeline, " ")

	cmd := exec.Command(parametres[0], parametres[1:]...)
	if err := cmd.Start(); err != nil {
		log.Error("failed to start recording", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}

	go func() {
		if err := cmd.Wait(); err != nil {
			log.Error("recording pipeline exited with error", sl.Err(err))

			return
		}

		if preRoll == "" {
			return
		}

		if err := mergeClips(filePath, preRoll, capturePath); err != nil {
			log.Error("failed to merge pre-roll into recording", sl.Err(err))

			return
		}

		for _, part := range []string{preRoll, capturePath} {
			if err := os.Remove(part); err != nil {
				log.Error("failed to remove merged part", sl.Err(err))
			}
		}
	}()

	log.Info("recording started", slog.String("file_path", filePath))

	return filePath, nil
}

// mergeClips remuxes the pre-roll buffer and the captured clip into one
// file, pre-roll first.
func mergeClips(dst, preRoll, capture string) error {
	pipeline := fmt.Sprintf(
		"gst-launch-1.0 concat name=c ! h264parse ! matroskamux ! filesink location=%s filesrc location=%s ! matroskademux ! c. filesrc location=%s ! matroskademux ! c.",
		dst, preRoll, capture)

	parametres := strings.Split(pipeline, " ")

	return exec.Command(parametres[0], parametres[1:]...).Run()
}

// StartContinuous records until StopContinuous is called for the same
// camera, returning the media path of the clip being written.
func (h *Hardware) StartContinuous(cameraIP string, quality models.Quality) (string, error) {
	const op = "hardware.gstreamer.StartContinuous"

	log := h.log.With(
		slog.String("op", op),
		slog.String("camera_ip", cameraIP),
	)

	filePath := filepath.Join(h.mediaPath,
		fmt.Sprintf("%s_%s.mkv", shortuuid.New(), time.Now().Format("2006-01-02_15-04-05")))

	pipeline := fmt.Sprintf(
		"gst-launch-1.0 rtspsrc location=%s ! rtph264depay ! h264parse ! matroskamux ! filesink location=%s",
		cameraIP, filePath)

	parametres := strings.Split(pipeline, " ")

	cmd := exec.Command(parametres[0], parametres[1:]...)
	if err := cmd.Start(); err != nil {
		log.Error("failed to start continuous recording", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}

	h.mu.Lock()
	h.commands[cameraIP] = cmd
	h.mu.Unlock()

	log.Info("continuous recording started", slog.String("file_path", filePath))

	return filePath, nil
}

func (h *Hardware) StopContinuous(cameraIP string) error {
	const op = "hardware.gstreamer.StopContinuous"

	h.mu.Lock()
	cmd, ok := h.commands[cameraIP]
	delete(h.commands, cameraIP)
	h.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s: no recording in progress for %s", op, cameraIP)
	}

	if err := cmd.Process.Kill(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeleteMedia removes the media file of an evicted or purged segment. A
// file that is already gone counts as deleted.
func (h *Hardware) DeleteMedia(filePath string) error {
	const op = "hardware.gstreamer.DeleteMedia"

	if filePath == "" {
		return nil
	}

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func isCameraAvailable(rtspURL string) (bool, error) {
	u, err := url.Parse(rtspURL)
	if err != nil {
		return false, err
	}

	conn := gortsplib.Client{}

	err = conn.Start(u.Scheme, u.Host)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	_, err = conn.Options(u)
	if err != nil {
		return false, err
	}

	return true, nil
}
