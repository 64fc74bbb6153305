package unshare

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

type ShareRemover interface {
	RemoveShare(ctx context.Context, caller, id string) error
}

func New(log *slog.Logger, remover ShareRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sharing.unshare.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		if err := remover.RemoveShare(r.Context(), mwAuth.UserID(r.Context()), id); err != nil {
			log.Error("Failed to remove share", slog.String("share_id", id), sl.Err(err))
			response.Fail(w, r, err, "failed to remove share")
			return
		}

		log.Info("Share removed", slog.String("share_id", id))

		render.NoContent(w, r)
	}
}
