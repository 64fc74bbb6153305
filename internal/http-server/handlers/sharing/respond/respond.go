package respond

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

type InviteResponder interface {
	RespondInvite(ctx context.Context, caller, id string, req *api.InviteResponseRequest) (*api.Invite, error)
}

type Request struct {
	api.InviteResponseRequest
}

type Response struct {
	response.Response
	Invite *api.Invite `json:"invite,omitempty"`
}

func New(log *slog.Logger, responder InviteResponder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sharing.respond.New"

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

		inv, err := responder.RespondInvite(r.Context(), mwAuth.UserID(r.Context()), id, &req.InviteResponseRequest)
		if err != nil {
			log.Error("Failed to respond to invite", slog.String("invite_id", id), sl.Err(err))
			response.Fail(w, r, err, "failed to respond to invite")
			return
		}

		log.Info("Invite answered", slog.String("invite_id", id), slog.String("status", inv.Status))

		render.JSON(w, r, Response{Invite: inv})
	}
}
