// Package sharing models calendar visibility between guides: one-hop share
// edges and the invite lifecycle that creates them.
package sharing

import (
	"errors"
	"sort"

	"tours-service/internal/models"
)

var (
	ErrSelfInvite    = errors.New("you are already the owner of this calendar")
	ErrAlreadyShared = errors.New("already shared with this guide")
	ErrInvitePending = errors.New("invite already pending")
	ErrInvitedByThem = errors.New("this guide has already invited you, respond to their invite instead")
	ErrNotInvitee    = errors.New("only the invited guide can respond")
	ErrNotPending    = errors.New("invite is no longer pending")
	ErrNotParty      = errors.New("only a guide on either side of the share can remove it")
)

// VisibleGuides returns self followed by every direct neighbour of self, sorted.
// Shares of shares are not followed.
func VisibleGuides(self string, shares []models.GuideShare) []string {
	seen := map[string]struct{}{self: {}}
	var others []string
	for _, s := range shares {
		var other string
		switch self {
		case s.GuideID:
			other = s.SharedWithID
		case s.SharedWithID:
			other = s.GuideID
		default:
			continue
		}
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		others = append(others, other)
	}
	sort.Strings(others)
	return append([]string{self}, others...)
}

// CanView reports whether viewer may see guide's calendar.
func CanView(viewer, guide string, shares []models.GuideShare) bool {
	return viewer == guide || Connected(viewer, guide, shares)
}

// Connected reports whether a direct edge exists between a and b in either direction.
func Connected(a, b string, shares []models.GuideShare) bool {
	for _, s := range shares {
		if (s.GuideID == a && s.SharedWithID == b) || (s.GuideID == b && s.SharedWithID == a) {
			return true
		}
	}
	return false
}

type InviteAction int

const (
	// InviteCreate inserts a fresh pending invite.
	InviteCreate InviteAction = iota + 1
	// InviteReopen resets an existing declined or stale invite to pending.
	InviteReopen
)

// PlanInvite decides what inviting to from from requires. existing is the
// previous from->to invite and reverse the previous to->from one, if any.
// A pair has at most one pending invite between them.
func PlanInvite(from, to string, existing, reverse *models.ShareInvite, shares []models.GuideShare) (InviteAction, error) {
	if from == to {
		return 0, ErrSelfInvite
	}
	if Connected(from, to, shares) {
		return 0, ErrAlreadyShared
	}
	if reverse != nil && reverse.Status == models.InvitePending {
		return 0, ErrInvitedByThem
	}
	if existing == nil {
		return InviteCreate, nil
	}
	if existing.Status == models.InvitePending {
		return 0, ErrInvitePending
	}
	return InviteReopen, nil
}

// Respond moves a pending invite on behalf of caller. Accepting yields the share
// edge to insert, owned by the invitee and pointing at the inviter. shares are
// the edges touching caller; a pair already connected in either direction
// cannot gain a second edge.
func Respond(inv *models.ShareInvite, caller string, accept bool, shares []models.GuideShare) (models.InviteStatus, *models.GuideShare, error) {
	if inv.ToGuideID != caller {
		return "", nil, ErrNotInvitee
	}
	if inv.Status != models.InvitePending {
		return "", nil, ErrNotPending
	}
	if !accept {
		return models.InviteDeclined, nil, nil
	}
	if Connected(inv.FromGuideID, inv.ToGuideID, shares) {
		return "", nil, ErrAlreadyShared
	}
	return models.InviteAccepted, &models.GuideShare{
		GuideID:      inv.ToGuideID,
		SharedWithID: inv.FromGuideID,
	}, nil
}

func CanRemove(share *models.GuideShare, caller string) error {
	if share.GuideID != caller && share.SharedWithID != caller {
		return ErrNotParty
	}
	return nil
}
