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

type AvailabilityLister interface {
	ListAvailability(ctx context.Context, caller, guideID, from, to string) (*api.Availability, error)
}

type Response struct {
	response.Response
	Availability *api.Availability `json:"availability,omitempty"`
}

// New serves GET /availability?from=&to=[&guide_id=]. guide_id defaults to the caller.
func New(log *slog.Logger, lister AvailabilityLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.availability.list.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		q := r.URL.Query()

		a, err := lister.ListAvailability(r.Context(), mwAuth.UserID(r.Context()), q.Get("guide_id"), q.Get("from"), q.Get("to"))
		if err != nil {
			log.Error("Failed to list availability", sl.Err(err))
			response.Fail(w, r, err, "failed to list availability")
			return
		}

		render.JSON(w, r, Response{Availability: a})
	}
}
