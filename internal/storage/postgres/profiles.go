package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tours-service/internal/models"
	"tours-service/pkg/response"
)

const profileColumns = `id, email, first_name, last_name, account_name, sort_code, account_number`

func (s *Storage) GetProfile(ctx context.Context, id string) (*models.GuideProfile, error) {
	const op = "storage.postgres.GetProfile"

	var p models.GuideProfile
	err := s.db.GetContext(ctx, &p, `SELECT `+profileColumns+` FROM guide_profiles WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &p, nil
}

func (s *Storage) ProfileByEmail(ctx context.Context, email string) (*models.GuideProfile, error) {
	const op = "storage.postgres.ProfileByEmail"

	var p models.GuideProfile
	err := s.db.GetContext(ctx, &p,
		`SELECT `+profileColumns+` FROM guide_profiles WHERE lower(email) = lower($1) LIMIT 1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &p, nil
}

// ListProfiles is used to label shared guides.
func (s *Storage) ListProfiles(ctx context.Context, ids []string) ([]models.GuideProfile, error) {
	const op = "storage.postgres.ListProfiles"

	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT `+profileColumns+` FROM guide_profiles WHERE id IN (?) ORDER BY last_name, first_name`, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out []models.GuideProfile
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// SaveProfile creates the caller's profile or refreshes its identity fields.
func (s *Storage) SaveProfile(ctx context.Context, p *models.GuideProfile) error {
	const op = "storage.postgres.SaveProfile"

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO guide_profiles (id, email, first_name, last_name)
		VALUES (:id, :email, :first_name, :last_name)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email, first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name`,
		p,
	)
	if isUnique(err) {
		return fmt.Errorf("%s: %w", op, response.WithReason(response.ErrConflict, "email is already registered"))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) UpdateBankDetails(ctx context.Context, id, accountName, sortCode, accountNumber string) error {
	const op = "storage.postgres.UpdateBankDetails"

	res, err := s.db.ExecContext(ctx, `
		UPDATE guide_profiles SET account_name = $1, sort_code = $2, account_number = $3
		WHERE id = $4`,
		accountName, sortCode, accountNumber, id,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
