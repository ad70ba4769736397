package alarmhandler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/zanzhit/camera_vault/internal/domain/errs"
	"github.com/zanzhit/camera_vault/internal/domain/models"
	"github.com/zanzhit/camera_vault/internal/lib/api/response"
	"github.com/zanzhit/camera_vault/internal/lib/sl"
)

type AlarmHandler struct {
	log     *slog.Logger
	handler AlarmHandling
}

type AlarmHandling interface {
	HandleAlarm(ctx context.Context, cameraID int, eventTime time.Time) (models.Segment, error)
	StartEmergency(ctx context.Context, cameraID int, start, end time.Time) (models.Segment, error)
}

func New(log *slog.Logger, handler AlarmHandling) *AlarmHandler {
	return &AlarmHandler{
		log:     log,
		handler: handler,
	}
}

type AlarmRequest struct {
	CameraID  int       `json:"camera_id" validate:"required,min=1,max=16"`
	EventTime time.Time `json:"event_time" validate:"required"`
}

type EmergencyRequest struct {
	CameraID  int       `json:"camera_id" validate:"required,min=1,max=16"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

type Response struct {
	Segment models.Segment `json:"segment"`
	response.Response
}

func (h *AlarmHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.alarms.Trigger"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req AlarmRequest
	err := render.DecodeJSON(r.Body, &req)
	if err != nil {
		if errors.Is(err, io.EOF) {
			log.Error("request body is empty")

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("empty request", ""))

			return
		}

		log.Error("failed to decode request body", sl.Err(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to decode request", middleware.GetReqID(r.Context())))

		return
	}

	log.Info("request body decoded", slog.Any("request", req))

	if err := validator.New().Struct(req); err != nil {
		validateErr := err.(validator.ValidationErrors)

		log.Error("invalid request", sl.Err(err))

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(validateErr))

		return
	}

	seg, err := h.handler.HandleAlarm(r.Context(), req.CameraID, req.EventTime)
	if err != nil {
		h.renderAlarmError(w, r, err)

		return
	}

	render.JSON(w, r, Response{Segment: seg})
}

func (h *AlarmHandler) Emergency(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.alarms.Emergency"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req EmergencyRequest
	err := render.DecodeJSON(r.Body, &req)
	if err != nil {
		if errors.Is(err, io.EOF) {
			log.Error("request body is empty")

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("empty request", ""))

			return
		}

		log.Error("failed to decode request body", sl.Err(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to decode request", middleware.GetReqID(r.Context())))

		return
	}

	log.Info("request body decoded", slog.Any("request", req))

	if err := validator.New().Struct(req); err != nil {
		validateErr := err.(validator.ValidationErrors)

		log.Error("invalid request", sl.Err(err))

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(validateErr))

		return
	}

	seg, err := h.handler.StartEmergency(r.Context(), req.CameraID, req.StartTime, req.EndTime)
	if err != nil {
		if errors.Is(err, errs.ErrEmergencyQuotaExceeded) {
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("emergency quota exceeded", middleware.GetReqID(r.Context())))

			return
		}

		h.renderAlarmError(w, r, err)

		return
	}

	render.JSON(w, r, Response{Segment: seg})
}

func (h *AlarmHandler) renderAlarmError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetReqID(r.Context())

	switch {
	case errors.Is(err, errs.ErrConfigNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("camera configuration not found", requestID))
	case errors.Is(err, errs.ErrCameraIsNotAvailable), errors.Is(err, errs.ErrHardwareTimeout):
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("camera hardware failure", requestID))
	case errors.Is(err, errs.ErrStorageFull):
		render.Status(r, http.StatusInsufficientStorage)
		render.JSON(w, r, response.Error("storage full", requestID))
	default:
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to handle alarm", requestID))
	}
}
