package service

import (
	"context"
	"fmt"
	"time"

	"tours-service/api"
	"tours-service/internal/booking"
	"tours-service/internal/sharing"
)

func (s *Service) SetAvailability(ctx context.Context, caller string, req *api.AvailabilityRequest) error {
	const op = "service.SetAvailability"

	if err := parseDate("date", req.Date); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if booking.IsPast(req.Date, s.today()) {
		return fmt.Errorf("%s: %w", op, reason(booking.ErrPastDate))
	}

	if err := s.store.SetAvailability(ctx, caller, req.Date, req.Available); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) ListAvailability(ctx context.Context, caller, guideID, from, to string) (*api.Availability, error) {
	const op = "service.ListAvailability"

	if guideID == "" {
		guideID = caller
	}
	if err := parseDate("from", from); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := parseDate("to", to); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	f, _ := time.Parse(time.DateOnly, from)
	t, _ := time.Parse(time.DateOnly, to)
	if t.Before(f) {
		return nil, fmt.Errorf("%s: %w", op, badRequest("to must not be before from"))
	}
	if t.Sub(f) > maxListSpan {
		return nil, fmt.Errorf("%s: %w", op, badRequest("date range is too long"))
	}

	if guideID != caller {
		shares, err := s.store.SharesOf(ctx, caller)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !sharing.CanView(caller, guideID, shares) {
			return nil, fmt.Errorf("%s: %w", op, forbidden("guide calendar is not shared with you"))
		}
	}

	dates, err := s.store.ListAvailability(ctx, guideID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if dates == nil {
		dates = []string{}
	}

	return &api.Availability{GuideID: guideID, From: from, To: to, Dates: dates}, nil
}
