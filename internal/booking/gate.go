package booking

import (
	"errors"

	"tours-service/internal/models"
)

var (
	ErrNotAccepted       = errors.New("tour is not accepted")
	ErrPastDate          = errors.New("tour date is in the past")
	ErrPrivate           = errors.New("tour is private")
	ErrUnresolved        = errors.New("participants statuses are not finalized")
	ErrAlreadyLocked     = errors.New("participants are locked")
	ErrInvalidGroupSize  = errors.New("group size must be a positive integer")
	ErrInvalidAttendance = errors.New("attendance status must be unset, arrived or absent")
)

// IsPast compares ISO dates as strings; today itself is not past.
func IsPast(date, today string) bool {
	return date < today
}

// CanEditParticipants checks that the participant list of t is still open.
func CanEditParticipants(t *models.Tour, today string) error {
	switch {
	case t.ParticipantsLocked:
		return ErrAlreadyLocked
	case t.Status != models.TourAccepted:
		return ErrNotAccepted
	case IsPast(t.Date, today):
		return ErrPastDate
	}
	return nil
}

// Unresolved returns the participants still without an arrived/absent mark.
func Unresolved(participants []models.Participant) []models.Participant {
	var out []models.Participant
	for _, p := range participants {
		if !p.AttendanceStatus.Resolved() {
			out = append(out, p)
		}
	}
	return out
}

// CanLock is the one-way gate into the locked state.
func CanLock(t *models.Tour, viewer, today string) error {
	if err := CanEditParticipants(t, today); err != nil {
		return err
	}
	if t.PrivateTo(viewer) {
		return ErrPrivate
	}
	if len(Unresolved(t.Participants)) > 0 {
		return ErrUnresolved
	}
	return nil
}

// CanInvoice allows previews of tours that are already locked, unlike CanLock.
func CanInvoice(t *models.Tour, viewer string) error {
	if t.Status != models.TourAccepted {
		return ErrNotAccepted
	}
	if t.PrivateTo(viewer) {
		return ErrPrivate
	}
	if len(Unresolved(t.Participants)) > 0 {
		return ErrUnresolved
	}
	return nil
}

func ValidGroupSize(n int) error {
	if n < 1 {
		return ErrInvalidGroupSize
	}
	return nil
}

func ParseAttendance(s string) (models.AttendanceStatus, error) {
	switch st := models.AttendanceStatus(s); st {
	case models.AttendanceUnset, models.AttendanceArrived, models.AttendanceAbsent:
		return st, nil
	}
	return "", ErrInvalidAttendance
}
