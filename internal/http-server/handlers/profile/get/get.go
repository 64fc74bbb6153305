package get

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

type ProfileGetter interface {
	GetProfile(ctx context.Context, caller string) (*api.Profile, error)
}

type Response struct {
	response.Response
	Profile *api.Profile `json:"profile,omitempty"`
}

func New(log *slog.Logger, getter ProfileGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.profile.get.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		p, err := getter.GetProfile(r.Context(), mwAuth.UserID(r.Context()))
		if err != nil {
			log.Error("Failed to get profile", sl.Err(err))
			response.Fail(w, r, err, "failed to get profile")
			return
		}

		render.JSON(w, r, Response{Profile: p})
	}
}
