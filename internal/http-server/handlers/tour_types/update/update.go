package update

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

type TourTypeUpdater interface {
	UpdateTourType(ctx context.Context, caller, id string, req *api.TourTypeRequest) (*api.TourType, error)
}

type Request struct {
	api.TourTypeRequest
}

type Response struct {
	response.Response
	TourType *api.TourType `json:"tour_type,omitempty"`
}

func New(log *slog.Logger, updater TourTypeUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tour_types.update.New"

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

		tt, err := updater.UpdateTourType(r.Context(), mwAuth.UserID(r.Context()), id, &req.TourTypeRequest)
		if err != nil {
			log.Error("Failed to update tour type", slog.String("tour_type_id", id), sl.Err(err))
			response.Fail(w, r, err, "failed to update tour type")
			return
		}

		log.Info("Tour type updated", slog.String("tour_type_id", id))

		render.JSON(w, r, Response{TourType: tt})
	}
}
