package invites

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

type InviteLister interface {
	ListInvites(ctx context.Context, caller string) ([]api.Invite, error)
}

type Response struct {
	response.Response
	Invites []api.Invite `json:"invites"`
}

func New(log *slog.Logger, lister InviteLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sharing.invites.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		invites, err := lister.ListInvites(r.Context(), mwAuth.UserID(r.Context()))
		if err != nil {
			log.Error("Failed to list invites", sl.Err(err))
			response.Fail(w, r, err, "failed to list invites")
			return
		}

		render.JSON(w, r, Response{Invites: invites})
	}
}
