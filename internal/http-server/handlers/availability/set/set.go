package set

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

type AvailabilitySetter interface {
	SetAvailability(ctx context.Context, caller string, req *api.AvailabilityRequest) error
}

type Request struct {
	api.AvailabilityRequest
}

func New(log *slog.Logger, setter AvailabilitySetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.availability.set.New"

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

		if err := setter.SetAvailability(r.Context(), mwAuth.UserID(r.Context()), &req.AvailabilityRequest); err != nil {
			log.Error("Failed to set availability", slog.String("date", req.Date), sl.Err(err))
			response.Fail(w, r, err, "failed to set availability")
			return
		}

		log.Info("Availability set", slog.String("date", req.Date), slog.Bool("available", req.Available))

		render.NoContent(w, r)
	}
}
