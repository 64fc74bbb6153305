package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"tours-service/internal/booking"
	"tours-service/internal/models"
	"tours-service/pkg/response"
)

const tourColumns = `id, date::text AS date, start_time, end_time, type, status, guide_id, created_by,
	is_private, participants_locked, invoice_path, created_at`

const participantColumns = `id, tour_id, name, group_size, attendance_status`

func (s *Storage) CreateTour(ctx context.Context, t *models.Tour) error {
	const op = "storage.postgres.CreateTour"

	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO tours (id, date, start_time, end_time, type, status, guide_id, created_by, is_private)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`,
		t.ID, t.Date, t.StartTime, t.EndTime, t.Type, t.Status, t.GuideID, t.CreatedBy, t.IsPrivate,
	).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GetTour loads the tour with its participants.
func (s *Storage) GetTour(ctx context.Context, id string) (*models.Tour, error) {
	const op = "storage.postgres.GetTour"

	var t models.Tour
	err := s.db.GetContext(ctx, &t, `SELECT `+tourColumns+` FROM tours WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.db.SelectContext(ctx, &t.Participants,
		`SELECT `+participantColumns+` FROM participants WHERE tour_id = $1 ORDER BY created_at, id`, id,
	); err != nil {
		return nil, fmt.Errorf("%s: participants: %w", op, err)
	}

	return &t, nil
}

// ListTours returns the tours of guideIDs between from and to inclusive, ordered
// by date and start time, participants attached.
func (s *Storage) ListTours(ctx context.Context, guideIDs []string, from, to string) ([]models.Tour, error) {
	const op = "storage.postgres.ListTours"

	var tours []models.Tour
	err := s.db.SelectContext(ctx, &tours, `
		SELECT `+tourColumns+` FROM tours
		WHERE guide_id = ANY($1) AND date BETWEEN $2 AND $3
		ORDER BY date, start_time, id`,
		pq.Array(guideIDs), from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(tours) == 0 {
		return tours, nil
	}

	ids := make([]string, len(tours))
	index := make(map[string]int, len(tours))
	for i, t := range tours {
		ids[i] = t.ID
		index[t.ID] = i
	}

	var participants []models.Participant
	if err := s.db.SelectContext(ctx, &participants,
		`SELECT `+participantColumns+` FROM participants WHERE tour_id = ANY($1) ORDER BY created_at, id`,
		pq.Array(ids),
	); err != nil {
		return nil, fmt.Errorf("%s: participants: %w", op, err)
	}
	for _, p := range participants {
		i := index[p.TourID]
		tours[i].Participants = append(tours[i].Participants, p)
	}

	return tours, nil
}

// AcceptedToursOn feeds the conflict check for one guide and day.
func (s *Storage) AcceptedToursOn(ctx context.Context, guideID, date string) ([]models.Tour, error) {
	const op = "storage.postgres.AcceptedToursOn"

	var tours []models.Tour
	err := s.db.SelectContext(ctx, &tours, `
		SELECT `+tourColumns+` FROM tours
		WHERE guide_id = $1 AND date = $2 AND status = 'accepted'
		ORDER BY start_time`,
		guideID, date,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tours, nil
}

// UpdateTourStatus moves a tour from one status to another. A tour no longer
// in from is left untouched.
func (s *Storage) UpdateTourStatus(ctx context.Context, id string, from, to models.TourStatus) error {
	const op = "storage.postgres.UpdateTourStatus"

	res, err := s.db.ExecContext(ctx, `UPDATE tours SET status = $1 WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, response.WithReason(response.ErrPrecondition, "tour is no longer "+string(from)))
	}

	return nil
}

// UpdateTourTime refuses locked tours at the row level.
func (s *Storage) UpdateTourTime(ctx context.Context, id string, start, end models.TimeOfDay) error {
	const op = "storage.postgres.UpdateTourTime"

	res, err := s.db.ExecContext(ctx,
		`UPDATE tours SET start_time = $1, end_time = $2 WHERE id = $3 AND NOT participants_locked`,
		start, end, id,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, booking.ErrAlreadyLocked)
	}

	return nil
}

func (s *Storage) DeleteTour(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteTour"

	res, err := s.db.ExecContext(ctx, `DELETE FROM tours WHERE id = $1 AND NOT participants_locked`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, booking.ErrAlreadyLocked)
	}

	return nil
}

// LockTour sets the invoice path and freezes participants in one conditional
// update. It reports false when the tour was locked concurrently or is no
// longer accepted.
func (s *Storage) LockTour(ctx context.Context, id, invoicePath string) (bool, error) {
	const op = "storage.postgres.LockTour"

	res, err := s.db.ExecContext(ctx, `
		UPDATE tours SET participants_locked = true, invoice_path = $1
		WHERE id = $2 AND NOT participants_locked AND status = 'accepted'`,
		invoicePath, id,
	)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n == 1, nil
}

// #### participants ####

// AddParticipant inserts only while the parent tour is unlocked.
func (s *Storage) AddParticipant(ctx context.Context, p *models.Participant) error {
	const op = "storage.postgres.AddParticipant"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO participants (id, tour_id, name, group_size, attendance_status)
		SELECT $1, t.id, $3, $4, $5 FROM tours t
		WHERE t.id = $2 AND NOT t.participants_locked`,
		p.ID, p.TourID, p.Name, p.GroupSize, p.AttendanceStatus,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, booking.ErrAlreadyLocked)
	}

	return nil
}

func (s *Storage) GetParticipant(ctx context.Context, id string) (*models.Participant, error) {
	const op = "storage.postgres.GetParticipant"

	var p models.Participant
	err := s.db.GetContext(ctx, &p, `SELECT `+participantColumns+` FROM participants WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &p, nil
}

func (s *Storage) DeleteParticipant(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteParticipant"

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM participants p USING tours t
		WHERE p.id = $1 AND t.id = p.tour_id AND NOT t.participants_locked`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, booking.ErrAlreadyLocked)
	}

	return nil
}

func (s *Storage) SetAttendance(ctx context.Context, id string, status models.AttendanceStatus) error {
	const op = "storage.postgres.SetAttendance"

	res, err := s.db.ExecContext(ctx, `
		UPDATE participants p SET attendance_status = $1
		FROM tours t
		WHERE p.id = $2 AND t.id = p.tour_id AND NOT t.participants_locked`, status, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, booking.ErrAlreadyLocked)
	}

	return nil
}
