package bank

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

type BankDetailsUpdater interface {
	UpdateBankDetails(ctx context.Context, caller string, req *api.BankDetailsRequest) (*api.Profile, error)
}

type Request struct {
	api.BankDetailsRequest
}

type Response struct {
	response.Response
	Profile *api.Profile `json:"profile,omitempty"`
}

func New(log *slog.Logger, updater BankDetailsUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.profile.bank.New"

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

		// bank details stay out of the logs
		p, err := updater.UpdateBankDetails(r.Context(), mwAuth.UserID(r.Context()), &req.BankDetailsRequest)
		if err != nil {
			log.Error("Failed to update bank details", sl.Err(err))
			response.Fail(w, r, err, "failed to update bank details")
			return
		}

		log.Info("Bank details updated", slog.String("guide_id", p.ID))

		render.JSON(w, r, Response{Profile: p})
	}
}
