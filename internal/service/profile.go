package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"tours-service/api"
	"tours-service/internal/models"
)

func (s *Service) GetProfile(ctx context.Context, caller string) (*api.Profile, error) {
	const op = "service.GetProfile"

	p, err := s.store.GetProfile(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := toProfile(p)
	return &out, nil
}

// SaveProfile creates caller's profile on first use and updates its identity afterwards.
func (s *Service) SaveProfile(ctx context.Context, caller string, req *api.ProfileRequest) (*api.Profile, error) {
	const op = "service.SaveProfile"

	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, badRequest("email is invalid"))
	}

	p := &models.GuideProfile{
		ID:        caller,
		Email:     strings.ToLower(addr.Address),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}
	if err := s.store.SaveProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetProfile(ctx, caller)
}

// UpdateBankDetails accepts UK payout details. Sort code and account number may
// carry spaces or dashes; empty values clear the field.
func (s *Service) UpdateBankDetails(ctx context.Context, caller string, req *api.BankDetailsRequest) (*api.Profile, error) {
	const op = "service.UpdateBankDetails"

	sortCode, ok := digits(req.SortCode)
	if !ok || (sortCode != "" && len(sortCode) != 6) {
		return nil, fmt.Errorf("%s: %w", op, badRequest("sort_code must have 6 digits"))
	}
	if sortCode != "" {
		sortCode = sortCode[0:2] + "-" + sortCode[2:4] + "-" + sortCode[4:6]
	}
	account, ok := digits(req.AccountNumber)
	if !ok || (account != "" && len(account) != 8) {
		return nil, fmt.Errorf("%s: %w", op, badRequest("account_number must have 8 digits"))
	}

	err := s.store.UpdateBankDetails(ctx, caller, strings.TrimSpace(req.AccountName), sortCode, account)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetProfile(ctx, caller)
}

// digits strips spaces and dashes. Any other non-digit rejects the value.
func digits(s string) (string, bool) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
		default:
			return "", false
		}
	}
	return b.String(), true
}
