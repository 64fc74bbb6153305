package invite

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

type GuideInviter interface {
	InviteGuide(ctx context.Context, caller string, req *api.InviteRequest) (*api.Invite, error)
}

type Request struct {
	api.InviteRequest
}

type Response struct {
	response.Response
	Invite *api.Invite `json:"invite,omitempty"`
}

func New(log *slog.Logger, inviter GuideInviter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sharing.invite.New"

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

		if req.Email == "" {
			log.Error("email is empty")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_INPUT), "email is required"))
			return
		}

		inv, err := inviter.InviteGuide(r.Context(), mwAuth.UserID(r.Context()), &req.InviteRequest)
		if err != nil {
			log.Error("Failed to invite guide", sl.Err(err))
			response.Fail(w, r, err, "failed to invite guide")
			return
		}

		log.Info("Invite sent", slog.String("invite_id", inv.ID), slog.String("to_guide_id", inv.ToGuideID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{Invite: inv})
	}
}
