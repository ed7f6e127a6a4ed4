package domain

import (
	"time"

	"github.com/google/uuid"
)

// Types for Azure DevOps service-hook payloads. Field names follow the
// camelCase wire format documented at
// https://learn.microsoft.com/en-us/rest/api/azure/devops/hooks/notifications/get

// Link is a single entry of a resource's "_links" map.
type Link struct {
	Href string `json:"href"`
}

// ResourceContainer identifies the collection/account/project an event
// belongs to.
type ResourceContainer struct {
	ID      uuid.UUID `json:"id"`
	BaseURL string    `json:"baseUrl,omitempty"`
}

// Message is the human-readable rendering of an event.
type Message struct {
	Text     string `json:"text"`
	HTML     string `json:"html"`
	Markdown string `json:"markdown"`
}

// Event is the envelope Azure DevOps posts to a service-hook subscriber.
type Event struct {
	ID                 uuid.UUID                    `json:"id"`
	SubscriptionID     *uuid.UUID                   `json:"subscriptionId,omitempty"`
	NotificationID     *uint64                      `json:"notificationId,omitempty"`
	EventType          string                       `json:"eventType"`
	PublisherID        string                       `json:"publisherId"`
	Message            *Message                     `json:"message,omitempty"`
	DetailedMessage    *Message                     `json:"detailedMessage,omitempty"`
	Resource           map[string]any               `json:"resource,omitempty"`
	ResourceVersion    string                       `json:"resourceVersion,omitempty"`
	ResourceContainers map[string]ResourceContainer `json:"resourceContainers"`
	CreatedDate        time.Time                    `json:"createdDate"`
}

// NotificationDetails is the event data embedded in a notification.
type NotificationDetails struct {
	EventType string `json:"eventType"`
	// Event is documented as always present but is in fact optional.
	Event *Event `json:"event,omitempty"`
}

// Notification is the server-side record of a delivered event, fetched
// back from the hooks API to verify that a payload really originated from
// the subscribed organization.
type Notification struct {
	ID             uint64              `json:"id"`
	SubscriptionID uuid.UUID           `json:"subscriptionId"`
	SubscriberID   uuid.UUID           `json:"subscriberId"`
	EventID        uuid.UUID           `json:"eventId"`
	Status         string              `json:"status"`
	Result         string              `json:"result"`
	CreatedDate    time.Time           `json:"createdDate"`
	ModifiedDate   time.Time           `json:"modifiedDate"`
	Details        NotificationDetails `json:"details"`
}

// ProjectFragment describes the project a pipeline definition lives in.
type ProjectFragment struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	URL            string    `json:"url"`
	State          string    `json:"state"`
	Revision       uint64    `json:"revision,omitempty"`
	Visibility     string    `json:"visibility"`
	LastUpdateTime time.Time `json:"lastUpdateTime"`
}

// DefinitionFragment describes the pipeline definition a build ran under.
type DefinitionFragment struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	URL         string          `json:"url"`
	URI         string          `json:"uri,omitempty"`
	Path        string          `json:"path,omitempty"`
	Type        string          `json:"type"`
	QueueStatus string          `json:"queueStatus"`
	Revision    uint64          `json:"revision"`
	Project     ProjectFragment `json:"project"`
}

// Build carries the fields of a completed pipeline run this service
// cares about. More fields exist on the wire and are ignored.
type Build struct {
	Tags               []string       `json:"tags,omitempty"`
	TemplateParameters map[string]any `json:"templateParameters,omitempty"`
	ID                 uint64         `json:"id"`
	URL                string         `json:"url"`
	// BuildNumber is the run label, e.g. "20221202.1".
	BuildNumber string `json:"buildNumber"`
	// Status is e.g. "completed".
	Status string `json:"status"`
	// Result is e.g. "succeeded".
	Result     string    `json:"result"`
	QueueTime  time.Time `json:"queueTime"`
	StartTime  time.Time `json:"startTime"`
	FinishTime time.Time `json:"finishTime"`
	// Reason the run was started, e.g. "manual" or "batchedCI".
	Reason string `json:"reason,omitempty"`
}

// BuildComplete is the resource payload of a "build.complete" event.
type BuildComplete struct {
	Links map[string]Link `json:"_links"`
	Build
}

// EventTypeBuildComplete is the only event type this service acts on.
const EventTypeBuildComplete = "build.complete"
