package attendance

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

type AttendanceSetter interface {
	SetAttendance(ctx context.Context, caller, tourID, participantID string, req *api.AttendanceRequest) (*api.Participant, error)
}

type Request struct {
	api.AttendanceRequest
}

type Response struct {
	response.Response
	Participant *api.Participant `json:"participant,omitempty"`
}

func New(log *slog.Logger, setter AttendanceSetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.participants.attendance.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		tourID := chi.URLParam(r, "id")
		pid := chi.URLParam(r, "pid")

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		p, err := setter.SetAttendance(r.Context(), mwAuth.UserID(r.Context()), tourID, pid, &req.AttendanceRequest)
		if err != nil {
			log.Error("Failed to set attendance", slog.String("participant_id", pid), sl.Err(err))
			response.Fail(w, r, err, "failed to set attendance")
			return
		}

		log.Info("Attendance set", slog.String("participant_id", pid), slog.String("status", p.AttendanceStatus))

		render.JSON(w, r, Response{Participant: p})
	}
}
