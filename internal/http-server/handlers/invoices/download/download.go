package download

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"

	"tours-service/api"
	"tours-service/pkg/middleware/mwAuth"
	"tours-service/pkg/response"
	"tours-service/pkg/sl"
)

type InvoiceDownloader interface {
	DownloadInvoice(ctx context.Context, caller, tourID string) (*api.InvoiceFile, error)
}

func New(log *slog.Logger, downloader InvoiceDownloader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.invoices.download.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		tourID := chi.URLParam(r, "id")

		file, err := downloader.DownloadInvoice(r.Context(), mwAuth.UserID(r.Context()), tourID)
		if err != nil {
			log.Error("Failed to download invoice", slog.String("tour_id", tourID), sl.Err(err))
			response.Fail(w, r, err, "failed to download invoice")
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
		w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(file.Data); err != nil {
			log.Warn("Failed to write invoice", sl.Err(err))
		}
	}
}
