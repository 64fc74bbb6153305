package delete

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

type TourDeleter interface {
	DeleteTour(ctx context.Context, caller, id string) error
}

func New(log *slog.Logger, deleter TourDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tours.delete.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		if err := deleter.DeleteTour(r.Context(), mwAuth.UserID(r.Context()), id); err != nil {
			log.Error("Failed to delete tour", slog.String("tour_id", id), sl.Err(err))
			response.Fail(w, r, err, "failed to delete tour")
			return
		}

		log.Info("Tour deleted", slog.String("tour_id", id))

		render.NoContent(w, r)
	}
}
