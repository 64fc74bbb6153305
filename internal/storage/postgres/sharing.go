package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tours-service/internal/models"
	"tours-service/pkg/response"
)

const (
	shareColumns  = `id, guide_id, shared_with_id, created_at`
	inviteColumns = `id, from_guide_id, to_guide_id, status, created_at`
)

// SharesOf returns every edge touching guideID, in either direction.
func (s *Storage) SharesOf(ctx context.Context, guideID string) ([]models.GuideShare, error) {
	const op = "storage.postgres.SharesOf"

	var out []models.GuideShare
	err := s.db.SelectContext(ctx, &out, `
		SELECT `+shareColumns+` FROM guide_shares
		WHERE guide_id = $1 OR shared_with_id = $1
		ORDER BY created_at, id`, guideID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Storage) GetShare(ctx context.Context, id string) (*models.GuideShare, error) {
	const op = "storage.postgres.GetShare"

	var sh models.GuideShare
	err := s.db.GetContext(ctx, &sh, `SELECT `+shareColumns+` FROM guide_shares WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &sh, nil
}

func (s *Storage) DeleteShare(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteShare"

	res, err := s.db.ExecContext(ctx, `DELETE FROM guide_shares WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// InviteBetween returns the from->to invite or response.ErrNotFound.
func (s *Storage) InviteBetween(ctx context.Context, from, to string) (*models.ShareInvite, error) {
	const op = "storage.postgres.InviteBetween"

	var inv models.ShareInvite
	err := s.db.GetContext(ctx, &inv,
		`SELECT `+inviteColumns+` FROM guide_share_invites WHERE from_guide_id = $1 AND to_guide_id = $2`, from, to)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &inv, nil
}

func (s *Storage) GetInvite(ctx context.Context, id string) (*models.ShareInvite, error) {
	const op = "storage.postgres.GetInvite"

	var inv models.ShareInvite
	err := s.db.GetContext(ctx, &inv, `SELECT `+inviteColumns+` FROM guide_share_invites WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &inv, nil
}

func (s *Storage) CreateInvite(ctx context.Context, inv *models.ShareInvite) error {
	const op = "storage.postgres.CreateInvite"

	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO guide_share_invites (id, from_guide_id, to_guide_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		inv.ID, inv.FromGuideID, inv.ToGuideID, inv.Status,
	).Scan(&inv.CreatedAt)
	if isUnique(err) {
		return fmt.Errorf("%s: %w", op, response.WithReason(response.ErrConflict, "invite already pending"))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) UpdateInviteStatus(ctx context.Context, id string, status models.InviteStatus) error {
	const op = "storage.postgres.UpdateInviteStatus"

	res, err := s.db.ExecContext(ctx, `UPDATE guide_share_invites SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// PendingInvites lists pending invites sent or received by guideID.
func (s *Storage) PendingInvites(ctx context.Context, guideID string) ([]models.ShareInvite, error) {
	const op = "storage.postgres.PendingInvites"

	var out []models.ShareInvite
	err := s.db.SelectContext(ctx, &out, `
		SELECT `+inviteColumns+` FROM guide_share_invites
		WHERE (from_guide_id = $1 OR to_guide_id = $1) AND status = 'pending'
		ORDER BY created_at DESC, id`, guideID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// AcceptInvite flips a pending invite to accepted and inserts its share edge in
// one transaction. A concurrent response surfaces as response.ErrNotFound.
func (s *Storage) AcceptInvite(ctx context.Context, inviteID string, share *models.GuideShare) error {
	const op = "storage.postgres.AcceptInvite"

	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE guide_share_invites SET status = 'accepted' WHERE id = $1 AND status = 'pending'`, inviteID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO guide_shares (id, guide_id, shared_with_id)
		VALUES ($1, $2, $3)
		RETURNING created_at`,
		share.ID, share.GuideID, share.SharedWithID,
	).Scan(&share.CreatedAt)
	if isUnique(err) {
		return fmt.Errorf("%s: %w", op, response.WithReason(response.ErrConflict, "already shared with this guide"))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
