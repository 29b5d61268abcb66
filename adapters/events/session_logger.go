package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// LogSessionEvents consumes SessionTopic and logs every event until ctx is
// done. Undecodable messages are logged and acked so they are not redelivered.
func LogSessionEvents(ctx context.Context, subscriber message.Subscriber, logger *zap.Logger) error {
	messages, err := subscriber.Subscribe(ctx, SessionTopic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", SessionTopic, err)
	}

	go func() {
		for msg := range messages {
			var event SessionChangedEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				logger.Warn("dropping malformed session event", zap.String("uuid", msg.UUID), zap.Error(err))
				msg.Ack()
				continue
			}

			logger.Info("session changed",
				zap.String("uuid", msg.UUID),
				zap.Bool("signed_in", event.IsSignedIn),
				zap.String("account_id", event.AccountID),
				zap.Time("changed_at", event.ChangedAt))
			msg.Ack()
		}
	}()

	return nil
}
