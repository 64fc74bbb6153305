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

type TourTypeLister interface {
	ListTourTypes(ctx context.Context, caller string) ([]api.TourType, error)
}

type Response struct {
	response.Response
	TourTypes []api.TourType `json:"tour_types"`
}

func New(log *slog.Logger, lister TourTypeLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tour_types.list.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		types, err := lister.ListTourTypes(r.Context(), mwAuth.UserID(r.Context()))
		if err != nil {
			log.Error("Failed to list tour types", sl.Err(err))
			response.Fail(w, r, err, "failed to list tour types")
			return
		}

		render.JSON(w, r, Response{TourTypes: types})
	}
}
