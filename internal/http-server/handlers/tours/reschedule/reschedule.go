package reschedule

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"tours-service/api"
	"tours-service/pkg/middleware/mwAuth"
	"tours-service/pkg/response"
	"tours-service/pkg/sl"
)

type TourRescheduler interface {
	UpdateTourTime(ctx context.Context, caller, id string, req *api.TourTimeRequest) (*api.Tour, error)
}

type Request struct {
	api.TourTimeRequest
}

type Response struct {
	response.Response
	Tour *api.Tour `json:"tour,omitempty"`
}

func New(log *slog.Logger, rescheduler TourRescheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tours.reschedule.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		if req.StartTime == "" || req.EndTime == "" {
			log.Error("start_time or end_time is empty")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_INPUT), "start_time and end_time are required"))
			return
		}

		tour, err := rescheduler.UpdateTourTime(r.Context(), mwAuth.UserID(r.Context()), id, &req.TourTimeRequest)
		if err != nil {
			log.Error("Failed to reschedule tour", slog.String("tour_id", id), sl.Err(err))
			response.Fail(w, r, err, "failed to reschedule tour")
			return
		}

		log.Info("Tour rescheduled",
			slog.String("tour_id", id),
			slog.String("start_time", tour.StartTime),
			slog.String("end_time", tour.EndTime),
		)

		render.JSON(w, r, Response{Tour: tour})
	}
}
