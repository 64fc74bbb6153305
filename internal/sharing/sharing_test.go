package sharing

import (
	"errors"
	"reflect"
	"testing"

	"tours-service/internal/models"
)

func TestVisibleGuides(t *testing.T) {
	shares := []models.GuideShare{
		{GuideID: "a", SharedWithID: "b"},
		{GuideID: "c", SharedWithID: "a"},
		{GuideID: "b", SharedWithID: "d"},
		{GuideID: "a", SharedWithID: "b"},
	}

	tests := []struct {
		self string
		want []string
	}{
		{"a", []string{"a", "b", "c"}},
		{"b", []string{"b", "a", "d"}},
		{"d", []string{"d", "b"}},
		{"z", []string{"z"}},
	}

	for _, tt := range tests {
		t.Run(tt.self, func(t *testing.T) {
			if got := VisibleGuides(tt.self, shares); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("VisibleGuides(%s) = %v, want %v", tt.self, got, tt.want)
			}
		})
	}
}

func TestVisibleGuides_NotTransitive(t *testing.T) {
	shares := []models.GuideShare{
		{GuideID: "a", SharedWithID: "b"},
		{GuideID: "b", SharedWithID: "c"},
	}
	if CanView("a", "c", shares) {
		t.Error("a must not see c through b")
	}
	if !CanView("c", "b", shares) || !CanView("a", "a", shares) {
		t.Error("direct neighbours and self must be visible")
	}
}

func TestInviteLifecycle_AcceptThenReinvite(t *testing.T) {
	var shares []models.GuideShare

	action, err := PlanInvite("a", "b", nil, nil, shares)
	if err != nil || action != InviteCreate {
		t.Fatalf("PlanInvite = %v, %v", action, err)
	}
	inv := &models.ShareInvite{ID: "i1", FromGuideID: "a", ToGuideID: "b", Status: models.InvitePending}

	status, edge, err := Respond(inv, "b", true, shares)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if status != models.InviteAccepted || edge == nil {
		t.Fatalf("expected accepted with edge, got %s %v", status, edge)
	}
	if edge.GuideID != "b" || edge.SharedWithID != "a" {
		t.Errorf("unexpected edge direction %+v", edge)
	}
	inv.Status = status
	shares = append(shares, *edge)

	if len(shares) != 1 {
		t.Fatalf("expected exactly one edge, got %d", len(shares))
	}
	if !CanView("a", "b", shares) || !CanView("b", "a", shares) {
		t.Error("edge must be visible from both sides")
	}

	if _, err := PlanInvite("a", "b", inv, nil, shares); !errors.Is(err, ErrAlreadyShared) {
		t.Errorf("second invite: expected ErrAlreadyShared, got %v", err)
	}
	if _, err := PlanInvite("b", "a", nil, nil, shares); !errors.Is(err, ErrAlreadyShared) {
		t.Errorf("reverse invite: expected ErrAlreadyShared, got %v", err)
	}
}

func TestPlanInvite(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		existing *models.ShareInvite
		reverse  *models.ShareInvite
		want     InviteAction
		wantErr  error
	}{
		{"self", "a", "a", nil, nil, 0, ErrSelfInvite},
		{"fresh", "a", "b", nil, nil, InviteCreate, nil},
		{"pending", "a", "b", &models.ShareInvite{Status: models.InvitePending}, nil, 0, ErrInvitePending},
		{"declined", "a", "b", &models.ShareInvite{Status: models.InviteDeclined}, nil, InviteReopen, nil},
		{"accepted but edge removed", "a", "b", &models.ShareInvite{Status: models.InviteAccepted}, nil, InviteReopen, nil},
		{"reverse pending", "a", "b", nil, &models.ShareInvite{Status: models.InvitePending}, 0, ErrInvitedByThem},
		{"reverse declined", "a", "b", nil, &models.ShareInvite{Status: models.InviteDeclined}, InviteCreate, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlanInvite(tt.from, tt.to, tt.existing, tt.reverse, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("action = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRespond(t *testing.T) {
	inv := &models.ShareInvite{FromGuideID: "a", ToGuideID: "b", Status: models.InvitePending}

	if _, _, err := Respond(inv, "a", true, nil); !errors.Is(err, ErrNotInvitee) {
		t.Errorf("inviter responding: got %v", err)
	}

	status, edge, err := Respond(inv, "b", false, nil)
	if err != nil || status != models.InviteDeclined || edge != nil {
		t.Errorf("decline = %s %v %v", status, edge, err)
	}

	done := &models.ShareInvite{FromGuideID: "a", ToGuideID: "b", Status: models.InviteDeclined}
	if _, _, err := Respond(done, "b", true, nil); !errors.Is(err, ErrNotPending) {
		t.Errorf("responding twice: got %v", err)
	}

	reversed := []models.GuideShare{{GuideID: "a", SharedWithID: "b"}}
	if _, _, err := Respond(inv, "b", true, reversed); !errors.Is(err, ErrAlreadyShared) {
		t.Errorf("accepting with an existing reverse edge: got %v", err)
	}
	if status, _, err := Respond(inv, "b", false, reversed); err != nil || status != models.InviteDeclined {
		t.Errorf("declining with an existing edge = %s %v", status, err)
	}
}

func TestCanRemove(t *testing.T) {
	share := &models.GuideShare{GuideID: "a", SharedWithID: "b"}
	for _, who := range []string{"a", "b"} {
		if err := CanRemove(share, who); err != nil {
			t.Errorf("%s: %v", who, err)
		}
	}
	if err := CanRemove(share, "c"); !errors.Is(err, ErrNotParty) {
		t.Errorf("stranger: got %v", err)
	}
}
