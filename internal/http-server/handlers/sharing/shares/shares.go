package shares

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

type ShareLister interface {
	ListShares(ctx context.Context, caller string) ([]api.Share, error)
}

type Response struct {
	response.Response
	Shares []api.Share `json:"shares"`
}

func New(log *slog.Logger, lister ShareLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sharing.shares.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		shares, err := lister.ListShares(r.Context(), mwAuth.UserID(r.Context()))
		if err != nil {
			log.Error("Failed to list shares", sl.Err(err))
			response.Fail(w, r, err, "failed to list shares")
			return
		}

		render.JSON(w, r, Response{Shares: shares})
	}
}
