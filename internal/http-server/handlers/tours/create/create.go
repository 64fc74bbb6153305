package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"tours-service/api"
	"tours-service/pkg/middleware/mwAuth"
	"tours-service/pkg/response"
	"tours-service/pkg/sl"
)

type TourCreator interface {
	CreateTour(ctx context.Context, caller string, req *api.TourCreateRequest) (*api.Tour, error)
}

type Request struct {
	api.TourCreateRequest
}

type Response struct {
	response.Response
	Tour *api.Tour `json:"tour,omitempty"`
}

func New(log *slog.Logger, creator TourCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tours.create.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Debug("Request body decoded", slog.Any("request", req))

		if req.Date == "" || req.StartTime == "" {
			log.Error("date or start_time is empty")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_INPUT), "date and start_time are required"))
			return
		}

		tour, err := creator.CreateTour(r.Context(), mwAuth.UserID(r.Context()), &req.TourCreateRequest)
		if err != nil {
			log.Error("Failed to create tour", sl.Err(err))
			response.Fail(w, r, err, "failed to create tour")
			return
		}

		log.Info("Tour created", slog.String("tour_id", tour.ID), slog.String("status", tour.Status))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{Tour: tour})
	}
}
