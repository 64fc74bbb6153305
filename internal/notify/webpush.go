package notify

import (
	"context"
	"fmt"
	"io"

	webpush "github.com/SherClockHolmes/webpush-go"

	"tours-service/internal/models"
)

// WebPushSender signs requests with the VAPID key pair.
type WebPushSender struct {
	subscriber string
	publicKey  string
	privateKey string
	ttl        int
}

func NewWebPushSender(subscriber, publicKey, privateKey string, ttl int) *WebPushSender {
	return &WebPushSender{
		subscriber: subscriber,
		publicKey:  publicKey,
		privateKey: privateKey,
		ttl:        ttl,
	}
}

func (w *WebPushSender) Send(ctx context.Context, sub models.PushSubscription, payload []byte) (int, error) {
	const op = "notify.WebPushSender.Send"

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			Auth:   sub.Auth,
			P256dh: sub.P256dh,
		},
	}, &webpush.Options{
		Subscriber:      w.subscriber,
		VAPIDPublicKey:  w.publicKey,
		VAPIDPrivateKey: w.privateKey,
		TTL:             w.ttl,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return resp.StatusCode, fmt.Errorf("%s: push service responded %d", op, resp.StatusCode)
	}

	return resp.StatusCode, nil
}
