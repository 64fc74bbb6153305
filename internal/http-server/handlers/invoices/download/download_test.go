package download

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"tours-service/api"
	"tours-service/pkg/response"
)

type fakeDownloader struct {
	file *api.InvoiceFile
	err  error
}

func (f fakeDownloader) DownloadInvoice(context.Context, string, string) (*api.InvoiceFile, error) {
	return f.file, f.err
}

func serve(d fakeDownloader) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/tours/{id}/invoice/pdf", New(slog.New(slog.NewTextHandler(io.Discard, nil)), d))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tours/t-1/invoice/pdf", nil))
	return rec
}

func TestNew(t *testing.T) {
	rec := serve(fakeDownloader{file: &api.InvoiceFile{Name: "INV-20260302-ABCDEF12.pdf", Data: []byte("%PDF-1.4")}})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="INV-20260302-ABCDEF12.pdf"` {
		t.Errorf("content disposition = %q", cd)
	}
	if rec.Body.String() != "%PDF-1.4" {
		t.Errorf("body = %q", rec.Body)
	}
}

func TestNewNotIssued(t *testing.T) {
	rec := serve(fakeDownloader{err: response.WithReason(response.ErrPrecondition, "invoice has not been issued")})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
}
