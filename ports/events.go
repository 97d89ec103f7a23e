package ports

import "context"

// EventPublisher notifies other services about authentication events.
type EventPublisher interface {
	PublishLogin(ctx context.Context, userID, method string) error
	PublishLogout(ctx context.Context, userID string) error
}
