// Package push is the Web Push delivery adapter. It only knows how to hand a
// payload to the push provider; whether and when to push is the caller's
// decision, and failures never reach the user-facing action.
package push

import (
	"context"
	"errors"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/nexlink/nexlink-backend/internal/domain"
)

// ErrSubscriptionGone signals that the provider no longer knows the endpoint
// and the stored subscription should be deleted.
var ErrSubscriptionGone = errors.New("push subscription gone")

// Sender delivers one payload to one subscription
type Sender interface {
	Send(ctx context.Context, sub *domain.PushSubscription, payload []byte) error
}

// WebPush sends VAPID-signed Web Push messages
type WebPush struct {
	options webpush.Options
}

// NewWebPush creates a WebPush sender from VAPID configuration
func NewWebPush(publicKey, privateKey, subject string) *WebPush {
	return &WebPush{
		options: webpush.Options{
			VAPIDPublicKey:  publicKey,
			VAPIDPrivateKey: privateKey,
			Subscriber:      subject,
			TTL:             60,
		},
	}
}

// Send pushes a payload to a single endpoint
func (w *WebPush) Send(ctx context.Context, sub *domain.PushSubscription, payload []byte) error {
	s := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}

	opts := w.options
	resp, err := webpush.SendNotificationWithContext(ctx, payload, s, &opts)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusGone:
		return ErrSubscriptionGone
	}
	if resp.StatusCode >= 400 {
		return errors.New("push provider returned " + resp.Status)
	}
	return nil
}
