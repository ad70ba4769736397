package schedulehandler

import (
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

type ScheduleHandler struct {
	log       *slog.Logger
	schedules ScheduleSaver
}

type ScheduleSaver interface {
	Save(sched models.Schedule) (models.Schedule, error)
	FindAll() ([]models.Schedule, error)
}

func New(log *slog.Logger, schedules ScheduleSaver) *ScheduleHandler {
	return &ScheduleHandler{
		log:       log,
		schedules: schedules,
	}
}

type Request struct {
	CameraID    int  `json:"camera_id" validate:"required,min=1,max=16"`
	Weekday     int  `json:"weekday" validate:"min=0,max=6"`
	StartMinute int  `json:"start_minute" validate:"min=0,max=1439"`
	EndMinute   int  `json:"end_minute" validate:"required,min=1,max=1440"`
	Enabled     bool `json:"enabled"`
}

func (h *ScheduleHandler) Save(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.schedules.Save"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	sched, err := models.NewSchedule(req.CameraID, time.Weekday(req.Weekday),
		req.StartMinute, req.EndMinute, req.Enabled)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidSchedule) {
			log.Error("invalid schedule", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error(), middleware.GetReqID(r.Context())))

			return
		}

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to build schedule", middleware.GetReqID(r.Context())))

		return
	}

	saved, err := h.schedules.Save(sched)
	if err != nil {
		log.Error("failed to save schedule", sl.Err(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to save schedule", middleware.GetReqID(r.Context())))

		return
	}

	render.JSON(w, r, saved)
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.schedules.List"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	scheds, err := h.schedules.FindAll()
	if err != nil {
		log.Error("failed to list schedules", sl.Err(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list schedules", middleware.GetReqID(r.Context())))

		return
	}

	render.JSON(w, r, scheds)
}
