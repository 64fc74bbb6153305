package list

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"tours-service/api"
	"tours-service/pkg/response"
)

type fakeLister struct {
	got api.TourListQuery
	err error
}

func (f *fakeLister) ListTours(_ context.Context, _ string, q api.TourListQuery) ([]api.Tour, error) {
	f.got = q
	return []api.Tour{}, f.err
}

func TestNew(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name   string
		url    string
		err    error
		want   api.TourListQuery
		status int
	}{
		{"range", "/tours?from=2026-03-01&to=2026-03-31", nil, api.TourListQuery{From: "2026-03-01", To: "2026-03-31"}, http.StatusOK},
		{"single day", "/tours?from=2026-03-01", nil, api.TourListQuery{From: "2026-03-01", To: "2026-03-01"}, http.StatusOK},
		{"one guide", "/tours?from=2026-03-01&to=2026-03-02&guide_id=g2", nil, api.TourListQuery{From: "2026-03-01", To: "2026-03-02", GuideID: "g2"}, http.StatusOK},
		{"not shared", "/tours?from=2026-03-01&guide_id=g3", response.ErrForbidden, api.TourListQuery{From: "2026-03-01", To: "2026-03-01", GuideID: "g3"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := &fakeLister{err: tt.err}
			rec := httptest.NewRecorder()
			New(log, lister).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if lister.got != tt.want {
				t.Errorf("query = %+v, want %+v", lister.got, tt.want)
			}
		})
	}
}
