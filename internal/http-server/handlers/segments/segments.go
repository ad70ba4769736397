package segmenthandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/zanzhit/camera_vault/internal/domain/errs"
	"github.com/zanzhit/camera_vault/internal/domain/models"
	"github.com/zanzhit/camera_vault/internal/lib/api/response"
	"github.com/zanzhit/camera_vault/internal/lib/sl"
)

type SegmentHandler struct {
	log      *slog.Logger
	segments SegmentProvider
}

type SegmentProvider interface {
	Segments() ([]models.Segment, error)
	Purge(segmentID int64) error
}

func New(log *slog.Logger, segments SegmentProvider) *SegmentHandler {
	return &SegmentHandler{
		log:      log,
		segments: segments,
	}
}

func (h *SegmentHandler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.segments.List"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	segs, err := h.segments.Segments()
	if err != nil {
		log.Error("failed to list segments", sl.Err(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list segments", middleware.GetReqID(r.Context())))

		return
	}

	render.JSON(w, r, segs)
}

func (h *SegmentHandler) Purge(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.segments.Purge"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	segmentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid segment id", sl.Err(err))

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid segment id", middleware.GetReqID(r.Context())))

		return
	}

	if err := h.segments.Purge(segmentID); err != nil {
		if errors.Is(err, errs.ErrSegmentNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("segment not found", middleware.GetReqID(r.Context())))

			return
		}

		log.Error("failed to purge segment", sl.Err(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to purge segment", middleware.GetReqID(r.Context())))

		return
	}

	w.WriteHeader(http.StatusOK)
}
