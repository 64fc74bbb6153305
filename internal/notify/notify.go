// Package notify delivers user notifications to registered push endpoints.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"tours-service/internal/models"
	"tours-service/pkg/sl"
)

const defaultTitle = "Walking Tours"

type Message struct {
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data,omitempty"`
}

// Result reports per-endpoint outcomes of one dispatch.
type Result struct {
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
	Removed int      `json:"removed"`
	Total   int      `json:"total"`
	Errors  []string `json:"errors"`
}

// Sender pushes payload to one endpoint and returns the HTTP status the push
// service answered with, or 0 when no response was received.
type Sender interface {
	Send(ctx context.Context, sub models.PushSubscription, payload []byte) (int, error)
}

type SubscriptionStore interface {
	PushSubscriptions(ctx context.Context, userID string) ([]models.PushSubscription, error)
	DeletePushSubscription(ctx context.Context, id string) error
}

type Dispatcher struct {
	log     *slog.Logger
	store   SubscriptionStore
	sender  Sender
	timeout time.Duration

	inflight sync.WaitGroup
}

func NewDispatcher(log *slog.Logger, store SubscriptionStore, sender Sender, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{log: log, store: store, sender: sender, timeout: timeout}
}

// Send delivers msg to every endpoint of userID. Endpoints answering 404 or 410
// are deleted. Only a failure to load subscriptions is returned as an error.
func (d *Dispatcher) Send(ctx context.Context, userID string, msg Message) (Result, error) {
	const op = "notify.Dispatcher.Send"

	res := Result{Errors: []string{}}

	if msg.Title == "" {
		msg.Title = defaultTitle
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}

	subs, err := d.store.PushSubscriptions(ctx, userID)
	if err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}
	res.Total = len(subs)

	for _, sub := range subs {
		status, err := d.sender.Send(ctx, sub, payload)
		if err == nil {
			res.Sent++
			continue
		}

		res.Failed++
		res.Errors = append(res.Errors, err.Error())

		if status == http.StatusNotFound || status == http.StatusGone {
			if err := d.store.DeletePushSubscription(ctx, sub.ID); err != nil {
				d.log.Warn("failed to prune push subscription", slog.String("subscription_id", sub.ID), sl.Err(err))
				continue
			}
			res.Removed++
		}
	}

	return res, nil
}

// Notify is the fire-and-forget form used alongside other actions. Delivery
// runs in the background, bounded by the dispatcher timeout and detached from
// ctx cancellation; failures are only logged.
func (d *Dispatcher) Notify(ctx context.Context, userID string, msg Message) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)

	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		defer cancel()
		d.deliver(ctx, userID, msg)
	}()
}

// Wait blocks until every notification started by Notify has finished or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) deliver(ctx context.Context, userID string, msg Message) {
	const op = "notify.Dispatcher.Notify"

	log := d.log.With(slog.String("op", op), slog.String("user_id", userID))

	res, err := d.Send(ctx, userID, msg)
	if err != nil {
		log.Error("notification dispatch failed", sl.Err(err))
		return
	}
	if res.Failed > 0 {
		log.Warn("notification partially delivered",
			slog.Int("sent", res.Sent),
			slog.Int("failed", res.Failed),
			slog.Int("removed", res.Removed),
		)
		return
	}
	log.Debug("notification delivered", slog.Int("sent", res.Sent))
}
