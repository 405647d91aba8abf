package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nexlink/nexlink-backend/internal/domain"
	"github.com/nexlink/nexlink-backend/internal/push"
	"github.com/nexlink/nexlink-backend/internal/repository"
	"github.com/nexlink/nexlink-backend/pkg/logger"
)

const pushTimeout = 10 * time.Second

// PushDispatcher fans a payload out to all of a user's push subscriptions.
// Delivery is best-effort: a "gone" endpoint is removed, any other failure is
// logged and ignored.
type PushDispatcher struct {
	subs   *repository.PushRepository
	sender push.Sender
}

// NewPushDispatcher creates a new PushDispatcher. A nil sender disables push
// entirely (e.g. no VAPID keys configured).
func NewPushDispatcher(subs *repository.PushRepository, sender push.Sender) *PushDispatcher {
	return &PushDispatcher{subs: subs, sender: sender}
}

// Dispatch sends payload to every subscription owned by the user
func (d *PushDispatcher) Dispatch(userID int64, payload interface{}) {
	if d.sender == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logger.GetLogger().Warn().Err(err).Msg("push payload marshal failed")
		return
	}

	subs, err := d.subs.FindByUser(userID)
	if err != nil {
		logger.GetLogger().Warn().Err(err).Int64("user_id", userID).Msg("push subscription lookup failed")
		return
	}

	for i := range subs {
		d.send(&subs[i], data)
	}
}

func (d *PushDispatcher) send(sub *domain.PushSubscription, data []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	err := d.sender.Send(ctx, sub, data)
	if err == nil {
		return
	}

	if errors.Is(err, push.ErrSubscriptionGone) {
		if delErr := d.subs.DeleteByEndpoint(sub.Endpoint); delErr != nil {
			logger.GetLogger().Warn().Err(delErr).Msg("stale push subscription cleanup failed")
		}
		return
	}
	logger.GetLogger().Warn().Err(err).Int64("user_id", sub.UserID).Msg("push delivery failed")
}
