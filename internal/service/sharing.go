package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"tours-service/api"
	"tours-service/internal/models"
	"tours-service/internal/notify"
	"tours-service/internal/sharing"
	"tours-service/pkg/response"
)

// InviteGuide asks the guide registered under req.Email to share calendars with caller.
func (s *Service) InviteGuide(ctx context.Context, caller string, req *api.InviteRequest) (*api.Invite, error) {
	const op = "service.InviteGuide"

	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, badRequest("email is invalid"))
	}

	target, err := s.store.ProfileByEmail(ctx, addr.Address)
	if errors.Is(err, response.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, response.WithReason(response.ErrNotFound, "no guide found with that email"))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	existing, err := s.store.InviteBetween(ctx, caller, target.ID)
	if errors.Is(err, response.ErrNotFound) {
		existing, err = nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	reverse, err := s.store.InviteBetween(ctx, target.ID, caller)
	if errors.Is(err, response.ErrNotFound) {
		reverse, err = nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	shares, err := s.store.SharesOf(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	action, err := sharing.PlanInvite(caller, target.ID, existing, reverse, shares)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, reason(err))
	}

	var inv *models.ShareInvite
	switch action {
	case sharing.InviteCreate:
		inv = &models.ShareInvite{
			ID:          uuid.NewString(),
			FromGuideID: caller,
			ToGuideID:   target.ID,
			Status:      models.InvitePending,
		}
		err = s.store.CreateInvite(ctx, inv)
	case sharing.InviteReopen:
		inv = existing
		inv.Status = models.InvitePending
		err = s.store.UpdateInviteStatus(ctx, inv.ID, models.InvitePending)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.notifier.Notify(ctx, target.ID, notify.Message{
		Title: "Calendar share invite",
		Body:  "A guide wants to share calendars with you.",
		Data:  map[string]any{"invite_id": inv.ID, "url": "./index.html"},
	})

	out := toInvite(inv, caller)
	return &out, nil
}

func (s *Service) ListInvites(ctx context.Context, caller string) ([]api.Invite, error) {
	const op = "service.ListInvites"

	invites, err := s.store.PendingInvites(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]api.Invite, 0, len(invites))
	for i := range invites {
		out = append(out, toInvite(&invites[i], caller))
	}
	return out, nil
}

// RespondInvite accepts or declines a pending invite addressed to caller.
func (s *Service) RespondInvite(ctx context.Context, caller, id string, req *api.InviteResponseRequest) (*api.Invite, error) {
	const op = "service.RespondInvite"

	if err := parseID("invite id", id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	inv, err := s.store.GetInvite(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	shares, err := s.store.SharesOf(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	status, share, err := sharing.Respond(inv, caller, req.Accept, shares)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, reason(err))
	}

	if share != nil {
		share.ID = uuid.NewString()
		err = s.store.AcceptInvite(ctx, inv.ID, share)
	} else {
		err = s.store.UpdateInviteStatus(ctx, inv.ID, status)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	inv.Status = status

	verb := "declined"
	if req.Accept {
		verb = "accepted"
	}
	s.notifier.Notify(ctx, inv.FromGuideID, notify.Message{
		Title: "Calendar share " + verb,
		Body:  "Your calendar share invite was " + verb + ".",
		Data:  map[string]any{"invite_id": inv.ID, "url": "./index.html"},
	})

	out := toInvite(inv, caller)
	return &out, nil
}

// ListShares returns caller's share edges, each with the profile of the other party.
func (s *Service) ListShares(ctx context.Context, caller string) ([]api.Share, error) {
	const op = "service.ListShares"

	shares, err := s.store.SharesOf(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	others := make([]string, 0, len(shares))
	for _, sh := range shares {
		others = append(others, otherParty(&sh, caller))
	}
	profiles, err := s.store.ListProfiles(ctx, others)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	byID := make(map[string]*models.GuideProfile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}

	out := make([]api.Share, 0, len(shares))
	for _, sh := range shares {
		item := api.Share{
			ID:           sh.ID,
			GuideID:      sh.GuideID,
			SharedWithID: sh.SharedWithID,
			CreatedAt:    sh.CreatedAt,
		}
		if p, ok := byID[otherParty(&sh, caller)]; ok {
			item.Guide = toGuide(p)
		}
		out = append(out, item)
	}
	return out, nil
}

func otherParty(sh *models.GuideShare, self string) string {
	if sh.GuideID == self {
		return sh.SharedWithID
	}
	return sh.GuideID
}

// RemoveShare deletes a share edge; either party may do so.
func (s *Service) RemoveShare(ctx context.Context, caller, id string) error {
	const op = "service.RemoveShare"

	if err := parseID("share id", id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	share, err := s.store.GetShare(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := sharing.CanRemove(share, caller); err != nil {
		return fmt.Errorf("%s: %w", op, reason(err))
	}

	if err := s.store.DeleteShare(ctx, share.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
