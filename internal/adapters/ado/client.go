// Package ado talks to the Azure DevOps service-hooks REST API. Its only
// job is fetching the server-side notification record so that inbound
// webhook payloads can be verified instead of trusted.
package ado

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jusmoore/shipyard/internal/adapters/azure"
	"github.com/jusmoore/shipyard/internal/core/domain"
	"github.com/jusmoore/shipyard/internal/core/ports"
)

const apiVersion = "7.1-preview.1"

// Client implements ports.NotificationClient against one organization.
type Client struct {
	organization string
	tokens       ports.TokenSource
	client       *http.Client
}

// NewClient creates a client for an organization URL such as
// "https://dev.azure.com/jusmoore". The app's identity needs access to
// the target organization.
func NewClient(organization string, tokens ports.TokenSource) *Client {
	return &Client{
		organization: organization,
		tokens:       tokens,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// GetNotification fetches the record of a delivered event.
// UUIDs are URL-safe, so interpolating them cannot escape the path.
func (c *Client) GetNotification(ctx context.Context, subscriptionID uuid.UUID, notificationID uint64) (*domain.Notification, error) {
	url := fmt.Sprintf("%s/_apis/hooks/subscriptions/%s/notifications/%d?api-version=%s",
		c.organization, subscriptionID, notificationID, apiVersion)

	token, err := c.tokens.Token(ctx, azure.ScopeDevOps)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notification data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: code %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to download notification data: %w", err)
	}

	var notif domain.Notification
	if err := json.Unmarshal(data, &notif); err != nil {
		return nil, fmt.Errorf("failed to decode notification data: %w", err)
	}
	return &notif, nil
}
