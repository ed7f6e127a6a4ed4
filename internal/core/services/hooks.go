// Package services holds the application logic between the HTTP layer
// and the platform adapters.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jusmoore/shipyard/internal/core/domain"
	"github.com/jusmoore/shipyard/internal/core/ports"
)

// HookService processes service-hook events: verification against the
// organization's notification records, dispatch by event type, and
// persistence of accepted payloads.
type HookService struct {
	notifications ports.NotificationClient
	store         ports.EventStore
	// secureFetch forces verification even when the event carries its
	// resource payload inline.
	secureFetch bool
}

// NewHookService wires the hook processor. store may be nil, in which
// case accepted events are logged but not persisted.
func NewHookService(notifications ports.NotificationClient, store ports.EventStore, secureFetch bool) *HookService {
	return &HookService{notifications: notifications, store: store, secureFetch: secureFetch}
}

// HandleBuildEvent processes one inbound event. Events that cannot be
// verified are rejected; event types other than build.complete are
// acknowledged and ignored.
func (s *HookService) HandleBuildEvent(ctx context.Context, event domain.Event) error {
	// When no data was sent with the event, or secure fetch is on, pull
	// the record from the organization instead of trusting the payload.
	if event.Resource == nil || s.secureFetch {
		verified, err := s.verify(ctx, &event)
		if err != nil {
			return fmt.Errorf("failed to verify event: %w", err)
		}
		event = *verified
	}

	switch event.EventType {
	case domain.EventTypeBuildComplete:
		return s.buildComplete(ctx, event)
	default:
		log.WithField("event_type", event.EventType).Debug("ignoring event")
		return nil
	}
}

// verify confirms an event originated from the subscribed organization
// by fetching its notification record and comparing the identifying
// fields. The hooks API offers nothing stronger to check against.
func (s *HookService) verify(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	if event.NotificationID == nil {
		return nil, fmt.Errorf("%w: event had no notification id", domain.ErrEventNotVerified)
	}
	if event.SubscriptionID == nil {
		return nil, fmt.Errorf("%w: event had no subscription id", domain.ErrEventNotVerified)
	}

	notif, err := s.notifications.GetNotification(ctx, *event.SubscriptionID, *event.NotificationID)
	if err != nil {
		return nil, err
	}

	if notif.EventID != event.ID || notif.ID != *event.NotificationID || notif.Status != "processing" {
		return nil, domain.ErrEventNotVerified
	}

	// Prefer the server-side copy of the event when the record carries
	// one; it includes the resource data even for slim deliveries.
	if notif.Details.Event != nil && notif.Details.Event.Resource != nil {
		verified := *notif.Details.Event
		verified.SubscriptionID = event.SubscriptionID
		verified.NotificationID = event.NotificationID
		return &verified, nil
	}
	return event, nil
}

// buildComplete handles a verified build.complete event.
func (s *HookService) buildComplete(ctx context.Context, event domain.Event) error {
	if event.Resource == nil {
		return domain.ErrMissingResource
	}

	raw, err := json.Marshal(event.Resource)
	if err != nil {
		return fmt.Errorf("failed to re-encode resource: %w", err)
	}
	var build domain.BuildComplete
	if err := json.Unmarshal(raw, &build); err != nil {
		return fmt.Errorf("failed to decode resource: %w", err)
	}

	log.WithFields(log.Fields{
		"build_number": build.BuildNumber,
		"result":       build.Result,
		"reason":       build.Reason,
	}).Info("build completed")

	if s.store == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	// Some deliveries omit createdDate; date the blob by arrival so it
	// lands in a meaningful partition.
	created := event.CreatedDate
	if created.IsZero() {
		created = time.Now()
	}
	name := fmt.Sprintf("builds/%s/%d.json", created.UTC().Format("2006-01-02"), build.ID)
	if err := s.store.Put(ctx, name, payload); err != nil {
		return fmt.Errorf("failed to persist event: %w", err)
	}
	return nil
}
