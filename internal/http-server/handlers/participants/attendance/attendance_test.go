package attendance

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"tours-service/api"
	"tours-service/pkg/response"
)

type fakeSetter struct {
	tourID, pid string
	err         error
}

func (f *fakeSetter) SetAttendance(_ context.Context, _ string, tourID, pid string, req *api.AttendanceRequest) (*api.Participant, error) {
	f.tourID, f.pid = tourID, pid
	if f.err != nil {
		return nil, f.err
	}
	return &api.Participant{ID: pid, TourID: tourID, AttendanceStatus: req.Status}, nil
}

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"arrived", `{"attendance_status":"arrived"}`, nil, http.StatusOK},
		{"broken json", `{`, nil, http.StatusBadRequest},
		{"bad status", `{"attendance_status":"late"}`, response.WithReason(response.ErrBadRequest, "attendance status must be unset, arrived or absent"), http.StatusBadRequest},
		{"locked tour", `{"attendance_status":"absent"}`, response.WithReason(response.ErrPrecondition, "participants are locked"), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setter := &fakeSetter{err: tt.err}
			r := chi.NewRouter()
			r.Put("/tours/{id}/participants/{pid}/attendance", New(slog.New(slog.NewTextHandler(io.Discard, nil)), setter))

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/tours/t-1/participants/p-9/attendance", strings.NewReader(tt.body)))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			if tt.status == http.StatusOK {
				if setter.tourID != "t-1" || setter.pid != "p-9" {
					t.Errorf("params = %s/%s", setter.tourID, setter.pid)
				}
				if !strings.Contains(rec.Body.String(), `"attendance_status":"arrived"`) {
					t.Errorf("body = %s", rec.Body)
				}
			}
		})
	}
}
