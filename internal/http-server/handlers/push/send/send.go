package send

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

type NotificationSender interface {
	SendNotification(ctx context.Context, caller string, req *api.NotificationRequest) (*api.NotificationResult, error)
}

type Request struct {
	api.NotificationRequest
}

type Response struct {
	response.Response
	*api.NotificationResult
}

func New(log *slog.Logger, sender NotificationSender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.push.send.New"

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

		res, err := sender.SendNotification(r.Context(), mwAuth.UserID(r.Context()), &req.NotificationRequest)
		if err != nil {
			log.Error("Failed to send notification", sl.Err(err))
			response.Fail(w, r, err, "failed to send notification")
			return
		}

		log.Info("Notification dispatched",
			slog.Int("sent", res.Sent),
			slog.Int("failed", res.Failed),
			slog.Int("removed", res.Removed),
		)

		render.JSON(w, r, Response{NotificationResult: res})
	}
}
