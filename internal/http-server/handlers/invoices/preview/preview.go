package preview

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

type InvoicePreviewer interface {
	PreviewInvoice(ctx context.Context, caller, tourID string) (*api.Invoice, error)
}

type Response struct {
	response.Response
	Invoice *api.Invoice `json:"invoice,omitempty"`
}

func New(log *slog.Logger, previewer InvoicePreviewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.invoices.preview.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		tourID := chi.URLParam(r, "id")

		inv, err := previewer.PreviewInvoice(r.Context(), mwAuth.UserID(r.Context()), tourID)
		if err != nil {
			log.Error("Failed to preview invoice", slog.String("tour_id", tourID), sl.Err(err))
			response.Fail(w, r, err, "failed to preview invoice")
			return
		}

		render.JSON(w, r, Response{Invoice: inv})
	}
}
