package list

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

type TourLister interface {
	ListTours(ctx context.Context, caller string, q api.TourListQuery) ([]api.Tour, error)
}

type Response struct {
	response.Response
	Tours []api.Tour `json:"tours"`
}

// New serves GET /tours?from=YYYY-MM-DD&to=YYYY-MM-DD[&guide_id=].
func New(log *slog.Logger, lister TourLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tours.list.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		q := r.URL.Query()
		query := api.TourListQuery{
			From:    q.Get("from"),
			To:      q.Get("to"),
			GuideID: q.Get("guide_id"),
		}
		if query.To == "" {
			query.To = query.From
		}

		tours, err := lister.ListTours(r.Context(), mwAuth.UserID(r.Context()), query)
		if err != nil {
			log.Error("Failed to list tours", sl.Err(err))
			response.Fail(w, r, err, "failed to list tours")
			return
		}

		log.Info("Tours retrieved", slog.Int("count", len(tours)))

		render.JSON(w, r, Response{Tours: tours})
	}
}
