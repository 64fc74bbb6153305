package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"tours-service/internal/booking"
	"tours-service/internal/invoice"
	"tours-service/internal/sharing"
	"tours-service/pkg/response"
)

var ErrTimeConflict = errors.New("time conflict with another accepted tour")

// reasons maps domain errors onto the response taxonomy. The message shown to
// the caller is the domain error's own text.
var reasons = []struct {
	err  error
	kind error
}{
	{booking.ErrNotAccepted, response.ErrPrecondition},
	{booking.ErrPastDate, response.ErrPrecondition},
	{booking.ErrPrivate, response.ErrPrecondition},
	{booking.ErrUnresolved, response.ErrPrecondition},
	{booking.ErrAlreadyLocked, response.ErrPrecondition},
	{booking.ErrInvalidGroupSize, response.ErrBadRequest},
	{booking.ErrInvalidAttendance, response.ErrBadRequest},
	{booking.ErrEmptyInterval, response.ErrBadRequest},
	{booking.ErrCrossesMidnight, response.ErrBadRequest},
	{ErrTimeConflict, response.ErrConflict},
	{invoice.ErrShortID, response.ErrBadRequest},
	{sharing.ErrSelfInvite, response.ErrBadRequest},
	{sharing.ErrAlreadyShared, response.ErrConflict},
	{sharing.ErrInvitePending, response.ErrConflict},
	{sharing.ErrInvitedByThem, response.ErrConflict},
	{sharing.ErrNotInvitee, response.ErrForbidden},
	{sharing.ErrNotParty, response.ErrForbidden},
	{sharing.ErrNotPending, response.ErrPrecondition},
}

func reason(err error) error {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return response.WithReason(r.kind, r.err.Error())
		}
	}
	return err
}

func badRequest(msg string) error {
	return response.WithReason(response.ErrBadRequest, msg)
}

func forbidden(msg string) error {
	return response.WithReason(response.ErrForbidden, msg)
}

func precondition(msg string) error {
	return response.WithReason(response.ErrPrecondition, msg)
}

func parseDate(field, v string) error {
	if _, err := time.Parse(time.DateOnly, v); err != nil {
		return badRequest(field + " must be a date in YYYY-MM-DD format")
	}
	return nil
}

func parseID(field, v string) error {
	if _, err := uuid.Parse(v); err != nil {
		return badRequest(field + " must be a valid UUID")
	}
	return nil
}
