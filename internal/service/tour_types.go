package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tours-service/api"
	"tours-service/internal/models"
	"tours-service/internal/sharing"
)

var hundred = decimal.NewFromInt(100)

// tourTypeFrom validates req and builds the tagged pricing variant.
func tourTypeFrom(req *api.TourTypeRequest) (*models.TourType, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, badRequest("name is required")
	}

	tt := &models.TourType{
		Name:              name,
		Description:       strings.TrimSpace(req.Description),
		Shareable:         req.Shareable,
		InvoiceOrgName:    strings.TrimSpace(req.InvoiceOrgName),
		InvoiceOrgAddress: strings.TrimSpace(req.InvoiceOrgAddress),
	}

	switch models.PaymentMode(req.PaymentType) {
	case models.PaymentPrepaid:
		if req.TicketPrice.IsNegative() {
			return nil, badRequest("ticket_price must not be negative")
		}
		if req.CommissionPercent.IsNegative() || req.CommissionPercent.GreaterThan(hundred) {
			return nil, badRequest("commission_percent must be between 0 and 100")
		}
		tt.Pricing = models.Prepaid{TicketPrice: req.TicketPrice, Commission: req.CommissionPercent}
	case models.PaymentFree:
		if req.FeePerParticipant.IsNegative() {
			return nil, badRequest("fee_per_participant must not be negative")
		}
		tt.Pricing = models.Free{FeePerParticipant: req.FeePerParticipant}
	default:
		return nil, badRequest("payment_type must be prepaid or free")
	}

	return tt, nil
}

func (s *Service) CreateTourType(ctx context.Context, caller string, req *api.TourTypeRequest) (*api.TourType, error) {
	const op = "service.CreateTourType"

	tt, err := tourTypeFrom(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	tt.ID = uuid.NewString()
	tt.GuideID = caller

	if err := s.store.CreateTourType(ctx, tt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := toTourType(tt, caller)
	return &out, nil
}

// ListTourTypes returns caller's own types followed by the shareable types of
// guides caller shares a calendar with.
func (s *Service) ListTourTypes(ctx context.Context, caller string) ([]api.TourType, error) {
	const op = "service.ListTourTypes"

	shares, err := s.store.SharesOf(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	types, err := s.store.ListTourTypes(ctx, sharing.VisibleGuides(caller, shares))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	own := make([]api.TourType, 0, len(types))
	var shared []api.TourType
	for i := range types {
		tt := &types[i]
		switch {
		case tt.GuideID == caller:
			own = append(own, toTourType(tt, caller))
		case tt.Shareable:
			shared = append(shared, toTourType(tt, caller))
		}
	}

	return append(own, shared...), nil
}

func (s *Service) ownTourType(ctx context.Context, caller, id string) (*models.TourType, error) {
	if err := parseID("tour type id", id); err != nil {
		return nil, err
	}
	tt, err := s.store.GetTourType(ctx, id)
	if err != nil {
		return nil, err
	}
	if tt.GuideID != caller {
		return nil, forbidden("only the owner can change a tour type")
	}
	return tt, nil
}

func (s *Service) UpdateTourType(ctx context.Context, caller, id string, req *api.TourTypeRequest) (*api.TourType, error) {
	const op = "service.UpdateTourType"

	next, err := tourTypeFrom(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	current, err := s.ownTourType(ctx, caller, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	next.ID = current.ID
	next.GuideID = current.GuideID

	if err := s.store.UpdateTourType(ctx, next); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := toTourType(next, caller)
	return &out, nil
}

func (s *Service) DeleteTourType(ctx context.Context, caller, id string) error {
	const op = "service.DeleteTourType"

	tt, err := s.ownTourType(ctx, caller, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.store.DeleteTourType(ctx, tt.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
