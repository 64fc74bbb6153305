package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"tours-service/api"
	"tours-service/internal/booking"
	"tours-service/internal/lock"
	"tours-service/internal/models"
	"tours-service/pkg/response"
)

// editParticipants runs fn on a tour whose participant list caller may change,
// holding the same lock LockTour takes.
func (s *Service) editParticipants(ctx context.Context, caller, tourID string, fn func(t *models.Tour) error) error {
	if err := parseID("tour id", tourID); err != nil {
		return err
	}

	return s.withLock(ctx, lock.TourKey(tourID), func() error {
		t, err := s.store.GetTour(ctx, tourID)
		if err != nil {
			return err
		}
		if err := s.participantAccess(ctx, t, caller); err != nil {
			return err
		}
		if err := booking.CanEditParticipants(t, s.today()); err != nil {
			return reason(err)
		}
		return fn(t)
	})
}

func (s *Service) participantAccess(ctx context.Context, t *models.Tour, caller string) error {
	if t.GuideID == caller || t.CreatedBy == caller {
		return nil
	}
	ok, err := s.canSee(ctx, t, caller)
	if err != nil {
		return err
	}
	if !ok {
		return response.ErrNotFound
	}
	if t.IsPrivate {
		return reason(booking.ErrPrivate)
	}
	return nil
}

func (s *Service) AddParticipant(ctx context.Context, caller, tourID string, req *api.ParticipantRequest) (*api.Participant, error) {
	const op = "service.AddParticipant"

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%s: %w", op, badRequest("name is required"))
	}
	if err := booking.ValidGroupSize(req.GroupSize); err != nil {
		return nil, fmt.Errorf("%s: %w", op, reason(err))
	}

	p := &models.Participant{
		ID:               uuid.NewString(),
		TourID:           tourID,
		Name:             name,
		GroupSize:        req.GroupSize,
		AttendanceStatus: models.AttendanceUnset,
	}

	err := s.editParticipants(ctx, caller, tourID, func(*models.Tour) error {
		return s.store.AddParticipant(ctx, p)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, reason(err))
	}

	out := toParticipant(p)
	return &out, nil
}

func (s *Service) RemoveParticipant(ctx context.Context, caller, tourID, participantID string) error {
	const op = "service.RemoveParticipant"

	if err := parseID("participant id", participantID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.editParticipants(ctx, caller, tourID, func(t *models.Tour) error {
		p, err := s.store.GetParticipant(ctx, participantID)
		if err != nil {
			return err
		}
		if p.TourID != t.ID {
			return response.ErrNotFound
		}
		return s.store.DeleteParticipant(ctx, participantID)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, reason(err))
	}

	return nil
}

func (s *Service) SetAttendance(ctx context.Context, caller, tourID, participantID string, req *api.AttendanceRequest) (*api.Participant, error) {
	const op = "service.SetAttendance"

	status, err := booking.ParseAttendance(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, reason(err))
	}
	if err := parseID("participant id", participantID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out api.Participant
	err = s.editParticipants(ctx, caller, tourID, func(t *models.Tour) error {
		p, err := s.store.GetParticipant(ctx, participantID)
		if err != nil {
			return err
		}
		if p.TourID != t.ID {
			return response.ErrNotFound
		}
		if err := s.store.SetAttendance(ctx, participantID, status); err != nil {
			return err
		}
		p.AttendanceStatus = status
		out = toParticipant(p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, reason(err))
	}

	return &out, nil
}
