package save

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

type ProfileSaver interface {
	SaveProfile(ctx context.Context, caller string, req *api.ProfileRequest) (*api.Profile, error)
}

type Request struct {
	api.ProfileRequest
}

type Response struct {
	response.Response
	Profile *api.Profile `json:"profile,omitempty"`
}

func New(log *slog.Logger, saver ProfileSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.profile.save.New"

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

		p, err := saver.SaveProfile(r.Context(), mwAuth.UserID(r.Context()), &req.ProfileRequest)
		if err != nil {
			log.Error("Failed to save profile", sl.Err(err))
			response.Fail(w, r, err, "failed to save profile")
			return
		}

		log.Info("Profile saved", slog.String("guide_id", p.ID))

		render.JSON(w, r, Response{Profile: p})
	}
}
