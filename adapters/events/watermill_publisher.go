package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/dappstore-io/passport/ports"
)

const (
	// LoginTopic receives an event for every successful login.
	LoginTopic = "passport.login"

	// LogoutTopic receives an event for every logout.
	LogoutTopic = "passport.logout"
)

// LoginEvent is published when a user completes a login.
type LoginEvent struct {
	UserID  string    `json:"user_id"`
	Method  string    `json:"method"` // "wallet" or "google"
	LoginAt time.Time `json:"login_at"`
}

// LogoutEvent is published when a user logs out.
type LogoutEvent struct {
	UserID   string    `json:"user_id"`
	LogoutAt time.Time `json:"logout_at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill.
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishLogin publishes a login event.
func (p *WatermillPublisher) PublishLogin(ctx context.Context, userID, method string) error {
	return p.publish(LoginTopic, LoginEvent{
		UserID:  userID,
		Method:  method,
		LoginAt: time.Now().UTC(),
	})
}

// PublishLogout publishes a logout event.
func (p *WatermillPublisher) PublishLogout(ctx context.Context, userID string) error {
	return p.publish(LogoutTopic, LogoutEvent{
		UserID:   userID,
		LogoutAt: time.Now().UTC(),
	})
}

func (p *WatermillPublisher) publish(topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
