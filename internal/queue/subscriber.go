package queue

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/unclebandit/outreach-scheduler/internal/model"
)

// DeltaApplier merges one external delta into the calendar.
type DeltaApplier interface {
	ApplyDelta(delta model.SendDelta) error
}

func StartSendUpdateSubscriber(q Queue, applier DeltaApplier, log *zap.Logger) error {
	return q.Subscribe(TopicSendUpdates, func(payload any) error {
		delta, ok := payload.(model.SendDelta)
		if !ok {
			log.Warn("invalid payload type, expected SendDelta", zap.String("type", fmt.Sprintf("%T", payload)))
			return nil
		}
		return applier.ApplyDelta(delta)
	})
}
