package create

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

type TourTypeCreator interface {
	CreateTourType(ctx context.Context, caller string, req *api.TourTypeRequest) (*api.TourType, error)
}

type Request struct {
	api.TourTypeRequest
}

type Response struct {
	response.Response
	TourType *api.TourType `json:"tour_type,omitempty"`
}

func New(log *slog.Logger, creator TourTypeCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tour_types.create.New"

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

		tt, err := creator.CreateTourType(r.Context(), mwAuth.UserID(r.Context()), &req.TourTypeRequest)
		if err != nil {
			log.Error("Failed to create tour type", sl.Err(err))
			response.Fail(w, r, err, "failed to create tour type")
			return
		}

		log.Info("Tour type created", slog.String("tour_type_id", tt.ID), slog.String("name", tt.Name))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{TourType: tt})
	}
}
