package camerahandler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/zanzhit/camera_vault/internal/domain/errs"
	"github.com/zanzhit/camera_vault/internal/domain/models"
	"github.com/zanzhit/camera_vault/internal/lib/api/response"
	"github.com/zanzhit/camera_vault/internal/lib/sl"
)

type CameraHandler struct {
	log     *slog.Logger
	cameras ConfigSaver
}

type ConfigSaver interface {
	Save(cfg models.CameraConfig) error
}

func New(log *slog.Logger, cameras ConfigSaver) *CameraHandler {
	return &CameraHandler{
		log:     log,
		cameras: cameras,
	}
}

type Request struct {
	CameraID      int            `json:"camera_id" validate:"required"`
	CameraIP      string         `json:"camera_ip" validate:"required"`
	NormalQuality models.Quality `json:"normal_quality" validate:"required"`
	AlarmQuality  models.Quality `json:"alarm_quality" validate:"required"`
	PreRecordSec  int            `json:"pre_record_sec" validate:"required"`
	PostRecordSec int            `json:"post_record_sec" validate:"required"`
}

func (h *CameraHandler) Save(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cameras.Save"

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

	cfg, err := models.NewCameraConfig(req.CameraID, req.CameraIP,
		req.NormalQuality, req.AlarmQuality, req.PreRecordSec, req.PostRecordSec)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCameraConfig) {
			log.Error("invalid camera configuration", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error(), middleware.GetReqID(r.Context())))

			return
		}

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to build camera configuration", middleware.GetReqID(r.Context())))

		return
	}

	if err := h.cameras.Save(cfg); err != nil {
		log.Error("failed to save camera configuration", sl.Err(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to save camera configuration", middleware.GetReqID(r.Context())))

		return
	}

	render.JSON(w, r, cfg)
}
