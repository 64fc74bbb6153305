package accept

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

type TourAccepter interface {
	AcceptTour(ctx context.Context, caller, id string) (*api.Tour, error)
}

type Response struct {
	response.Response
	Tour *api.Tour `json:"tour,omitempty"`
}

func New(log *slog.Logger, accepter TourAccepter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tours.accept.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		tour, err := accepter.AcceptTour(r.Context(), mwAuth.UserID(r.Context()), id)
		if err != nil {
			log.Error("Failed to accept tour", slog.String("tour_id", id), sl.Err(err))
			response.Fail(w, r, err, "failed to accept tour")
			return
		}

		log.Info("Tour accepted", slog.String("tour_id", id))

		render.JSON(w, r, Response{Tour: tour})
	}
}
