package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/layer-3/nearstore/core"
	"github.com/layer-3/nearstore/ports"
)

// SessionTopic is where session changes are published
const SessionTopic = "nearstore.session"

// SessionChangedEvent is the payload published on SessionTopic
type SessionChangedEvent struct {
	IsSignedIn bool      `json:"is_signed_in"`
	AccountID  string    `json:"account_id,omitempty"`
	Balance    string    `json:"balance,omitempty"`
	ChangedAt  time.Time `json:"changed_at"`
}

// WatermillPublisher publishes session changes through a Watermill publisher
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewWatermillPublisher creates a session observer backed by publisher
func NewWatermillPublisher(publisher message.Publisher) ports.SessionObserver {
	return &WatermillPublisher{
		publisher: publisher,
		topic:     SessionTopic,
	}
}

// SessionChanged publishes a SessionChangedEvent
func (p *WatermillPublisher) SessionChanged(ctx context.Context, status core.SessionStatus) error {
	event := SessionChangedEvent{
		IsSignedIn: status.IsSignedIn,
		AccountID:  status.AccountID,
		Balance:    status.Balance,
		ChangedAt:  status.UpdatedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
