package subscribe

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

type SubscriptionRegistrar interface {
	RegisterPushSubscription(ctx context.Context, caller string, req *api.PushSubscriptionRequest) error
}

type Request struct {
	api.PushSubscriptionRequest
}

func New(log *slog.Logger, registrar SubscriptionRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.push.subscribe.New"

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

		if req.UserAgent == "" {
			req.UserAgent = r.UserAgent()
		}

		if err := registrar.RegisterPushSubscription(r.Context(), mwAuth.UserID(r.Context()), &req.PushSubscriptionRequest); err != nil {
			log.Error("Failed to register push subscription", sl.Err(err))
			response.Fail(w, r, err, "failed to register push subscription")
			return
		}

		log.Info("Push subscription registered")

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Response{})
	}
}
