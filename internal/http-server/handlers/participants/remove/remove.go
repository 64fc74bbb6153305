package remove

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

type ParticipantRemover interface {
	RemoveParticipant(ctx context.Context, caller, tourID, participantID string) error
}

func New(log *slog.Logger, remover ParticipantRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.participants.remove.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		tourID := chi.URLParam(r, "id")
		pid := chi.URLParam(r, "pid")

		if err := remover.RemoveParticipant(r.Context(), mwAuth.UserID(r.Context()), tourID, pid); err != nil {
			log.Error("Failed to remove participant",
				slog.String("tour_id", tourID),
				slog.String("participant_id", pid),
				sl.Err(err),
			)
			response.Fail(w, r, err, "failed to remove participant")
			return
		}

		log.Info("Participant removed", slog.String("tour_id", tourID), slog.String("participant_id", pid))

		render.NoContent(w, r)
	}
}
