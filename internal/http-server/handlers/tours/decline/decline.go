package decline

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"tours-service/pkg/middleware/mwAuth"
	"tours-service/pkg/response"
	"tours-service/pkg/sl"
)

type TourDecliner interface {
	DeclineTour(ctx context.Context, caller, id string) error
}

func New(log *slog.Logger, decliner TourDecliner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tours.decline.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		if err := decliner.DeclineTour(r.Context(), mwAuth.UserID(r.Context()), id); err != nil {
			log.Error("Failed to decline tour", slog.String("tour_id", id), sl.Err(err))
			response.Fail(w, r, err, "failed to decline tour")
			return
		}

		log.Info("Tour declined", slog.String("tour_id", id))

		render.NoContent(w, r)
	}
}
