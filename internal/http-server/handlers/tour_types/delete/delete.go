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

type TourTypeDeleter interface {
	DeleteTourType(ctx context.Context, caller, id string) error
}

func New(log *slog.Logger, deleter TourTypeDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tour_types.delete.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		if err := deleter.DeleteTourType(r.Context(), mwAuth.UserID(r.Context()), id); err != nil {
			log.Error("Failed to delete tour type", slog.String("tour_type_id", id), sl.Err(err))
			response.Fail(w, r, err, "failed to delete tour type")
			return
		}

		log.Info("Tour type deleted", slog.String("tour_type_id", id))

		render.NoContent(w, r)
	}
}
