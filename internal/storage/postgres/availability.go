package postgres

import (
	"context"
	"fmt"
)

func (s *Storage) SetAvailability(ctx context.Context, guideID, date string, available bool) error {
	const op = "storage.postgres.SetAvailability"

	query := `INSERT INTO guide_availability (guide_id, date) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if !available {
		query = `DELETE FROM guide_availability WHERE guide_id = $1 AND date = $2`
	}

	if _, err := s.db.ExecContext(ctx, query, guideID, date); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ListAvailability returns the ISO dates guideID marked available in [from, to].
func (s *Storage) ListAvailability(ctx context.Context, guideID, from, to string) ([]string, error) {
	const op = "storage.postgres.ListAvailability"

	var dates []string
	err := s.db.SelectContext(ctx, &dates, `
		SELECT date::text FROM guide_availability
		WHERE guide_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date`, guideID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return dates, nil
}

func (s *Storage) IsAvailable(ctx context.Context, guideID, date string) (bool, error) {
	const op = "storage.postgres.IsAvailable"

	var ok bool
	err := s.db.GetContext(ctx, &ok,
		`SELECT EXISTS (SELECT 1 FROM guide_availability WHERE guide_id = $1 AND date = $2)`, guideID, date)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return ok, nil
}
