package postgres

import (
	"context"
	"fmt"

	"tours-service/internal/models"
)

// UpsertPushSubscription keys on the endpoint; a browser re-registering moves to the new user.
func (s *Storage) UpsertPushSubscription(ctx context.Context, sub *models.PushSubscription) error {
	const op = "storage.postgres.UpsertPushSubscription"

	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO push_subscriptions (id, user_id, endpoint, p256dh, auth, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (endpoint) DO UPDATE
		SET user_id = EXCLUDED.user_id, p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth, user_agent = EXCLUDED.user_agent
		RETURNING id`,
		sub.ID, sub.UserID, sub.Endpoint, sub.P256dh, sub.Auth, sub.UserAgent,
	).Scan(&sub.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) PushSubscriptions(ctx context.Context, userID string) ([]models.PushSubscription, error) {
	const op = "storage.postgres.PushSubscriptions"

	var out []models.PushSubscription
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, user_id, endpoint, p256dh, auth, user_agent FROM push_subscriptions
		WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Storage) DeletePushSubscription(ctx context.Context, id string) error {
	const op = "storage.postgres.DeletePushSubscription"

	if _, err := s.db.ExecContext(ctx, `DELETE FROM push_subscriptions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
