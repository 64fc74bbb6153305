package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"tours-service/api"
	"tours-service/internal/models"
	"tours-service/internal/notify"
	"tours-service/internal/sharing"
)

func (s *Service) RegisterPushSubscription(ctx context.Context, caller string, req *api.PushSubscriptionRequest) error {
	const op = "service.RegisterPushSubscription"

	u, err := url.Parse(strings.TrimSpace(req.Endpoint))
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%s: %w", op, badRequest("endpoint must be an https URL"))
	}
	if req.Keys.P256dh == "" || req.Keys.Auth == "" {
		return fmt.Errorf("%s: %w", op, badRequest("keys.p256dh and keys.auth are required"))
	}

	sub := &models.PushSubscription{
		ID:        uuid.NewString(),
		UserID:    caller,
		Endpoint:  u.String(),
		P256dh:    req.Keys.P256dh,
		Auth:      req.Keys.Auth,
		UserAgent: req.UserAgent,
	}
	if err := s.store.UpsertPushSubscription(ctx, sub); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SendNotification pushes a message to caller or to a guide sharing a calendar with caller.
func (s *Service) SendNotification(ctx context.Context, caller string, req *api.NotificationRequest) (*api.NotificationResult, error) {
	const op = "service.SendNotification"

	target := req.ToUserID
	if target == "" {
		target = caller
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, fmt.Errorf("%s: %w", op, badRequest("body is required"))
	}

	if target != caller {
		shares, err := s.store.SharesOf(ctx, caller)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !sharing.CanView(caller, target, shares) {
			return nil, fmt.Errorf("%s: %w", op, forbidden("you can only notify guides you share a calendar with"))
		}
	}

	res, err := s.notifier.Send(ctx, target, notify.Message{Title: req.Title, Body: req.Body, Data: req.Data})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &api.NotificationResult{
		Sent:    res.Sent,
		Failed:  res.Failed,
		Removed: res.Removed,
		Total:   res.Total,
		Errors:  res.Errors,
	}, nil
}
