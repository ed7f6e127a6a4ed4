package ado

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
}

func (s staticTokens) Token(_ context.Context, _ string) (string, error) {
	return s.token, nil
}

func TestGetNotification(t *testing.T) {
	subID := uuid.MustParse("213e4167-f493-4941-9b4c-bbb092d0b159")
	eventID := uuid.MustParse("d6ac459c-18b3-44ff-95b5-b5f03db672ea")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, fmt.Sprintf("/_apis/hooks/subscriptions/%s/notifications/41", subID), r.URL.Path)
		assert.Equal(t, "7.1-preview.1", r.URL.Query().Get("api-version"))

		fmt.Fprintf(w, `{
			"id": 41,
			"subscriptionId": %q,
			"subscriberId": "00000000-0000-0000-0000-000000000000",
			"eventId": %q,
			"status": "processing",
			"result": "pending",
			"createdDate": "2023-06-30T15:24:41.38Z",
			"modifiedDate": "2023-06-30T15:24:41.39Z",
			"details": {"eventType": "build.complete"}
		}`, subID, eventID)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticTokens{token: "secret"})
	notif, err := client.GetNotification(context.Background(), subID, 41)
	require.NoError(t, err)

	assert.Equal(t, uint64(41), notif.ID)
	assert.Equal(t, eventID, notif.EventID)
	assert.Equal(t, "processing", notif.Status)
}

func TestGetNotification_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticTokens{token: "secret"})
	_, err := client.GetNotification(context.Background(), uuid.New(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code 404")
}

func TestGetNotification_BadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "not json")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticTokens{token: "secret"})
	_, err := client.GetNotification(context.Background(), uuid.New(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}
