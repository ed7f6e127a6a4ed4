package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/jusmoore/shipyard/internal/core/domain"
)

// TokenSource mints access tokens for a resource audience. In production
// this is backed by the platform managed identity, so no secret is ever
// configured on the app itself.
type TokenSource interface {
	Token(ctx context.Context, scope string) (string, error)
}

// NotificationClient fetches the server-side record of a delivered
// service-hook event, used to verify inbound payloads.
type NotificationClient interface {
	GetNotification(ctx context.Context, subscriptionID uuid.UUID, notificationID uint64) (*domain.Notification, error)
}

// EventStore persists verified event payloads.
type EventStore interface {
	Put(ctx context.Context, name string, payload []byte) error
}
