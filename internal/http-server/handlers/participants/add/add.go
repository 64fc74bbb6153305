package add

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

type ParticipantAdder interface {
	AddParticipant(ctx context.Context, caller, tourID string, req *api.ParticipantRequest) (*api.Participant, error)
}

type Request struct {
	api.ParticipantRequest
}

type Response struct {
	response.Response
	Participant *api.Participant `json:"participant,omitempty"`
}

func New(log *slog.Logger, adder ParticipantAdder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.participants.add.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		tourID := chi.URLParam(r, "id")

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		p, err := adder.AddParticipant(r.Context(), mwAuth.UserID(r.Context()), tourID, &req.ParticipantRequest)
		if err != nil {
			log.Error("Failed to add participant", slog.String("tour_id", tourID), sl.Err(err))
			response.Fail(w, r, err, "failed to add participant")
			return
		}

		log.Info("Participant added", slog.String("tour_id", tourID), slog.String("participant_id", p.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{Participant: p})
	}
}
