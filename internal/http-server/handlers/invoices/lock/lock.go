package lock

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

type TourLocker interface {
	LockTour(ctx context.Context, caller, tourID string) (*api.LockResponse, error)
}

type Response struct {
	response.Response
	*api.LockResponse
}

// New issues the invoice and freezes the participant list. A rendering or
// upload failure answers 502 and leaves the tour open.
func New(log *slog.Logger, locker TourLocker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.invoices.lock.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		tourID := chi.URLParam(r, "id")

		res, err := locker.LockTour(r.Context(), mwAuth.UserID(r.Context()), tourID)
		if err != nil {
			log.Error("Failed to lock tour", slog.String("tour_id", tourID), sl.Err(err))
			response.Fail(w, r, err, "failed to issue invoice")
			return
		}

		log.Info("Tour locked",
			slog.String("tour_id", tourID),
			slog.String("invoice_no", res.Invoice.InvoiceNo),
			slog.String("file_path", res.FilePath),
		)

		render.JSON(w, r, Response{LockResponse: res})
	}
}
