package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Payloads sourced from the service-hook test delivery in the Azure
// DevOps UI. The second one is a slim delivery: no event data at all.
const notificationWithEvent = `{
  "id": 41,
  "subscriptionId": "00000000-0000-0000-0000-000000000000",
  "subscriberId": "00000000-0000-0000-0000-000000000000",
  "eventId": "d6ac459c-18b3-44ff-95b5-b5f03db672ea",
  "status": "processing",
  "result": "pending",
  "createdDate": "2023-06-30T15:24:41.38Z",
  "modifiedDate": "2023-06-30T15:24:41.39Z",
  "details": {
    "eventType": "build.complete",
    "event": {
      "id": "d6ac459c-18b3-44ff-95b5-b5f03db672ea",
      "eventType": "build.complete",
      "publisherId": "tfs",
      "message": {
        "text": "Build 20150407.2 succeeded",
        "html": "Build <a href=\"https://fabrikam-fiber-inc.visualstudio.com/web/build.aspx?builduri=vstfs%3a%2f%2f%2fBuild%2fBuild%2f4\">20150407.2</a> succeeded",
        "markdown": "Build [20150407.2](https://fabrikam-fiber-inc.visualstudio.com/web/build.aspx?builduri=vstfs%3a%2f%2f%2fBuild%2fBuild%2f4) succeeded"
      },
      "resource": {
        "_links": {
          "web": {
            "href": "https://fabrikam-fiber-inc.visualstudio.com/DefaultCollection/71777fbc-1cf2-4bd1-9540-128c1c71f766/_apis/build/Builds/1"
          }
        },
        "id": 1,
        "buildNumber": "20150407.2",
        "status": "completed",
        "result": "succeeded",
        "queueTime": "2015-04-07T17:22:56.22Z",
        "startTime": "2015-04-07T17:23:02.4977418Z",
        "finishTime": "2015-04-07T17:24:20.763574Z",
        "url": "https://fabrikam-fiber-inc.visualstudio.com/DefaultCollection/71777fbc-1cf2-4bd1-9540-128c1c71f766/_apis/build/Builds/1",
        "uri": "vstfs:///Build/Build/1",
        "sourceBranch": "refs/heads/master",
        "reason": "batchedCI"
      },
      "resourceVersion": "2.0",
      "resourceContainers": {
        "collection": {"id": "c12d0eb8-e382-443b-9f9c-c52cba5014c2"},
        "account": {"id": "f844ec47-a9db-4511-8281-8b63f4eaf94e"},
        "project": {"id": "be9b3917-87e6-42a4-a549-2bc06a7a878f"}
      },
      "createdDate": "2023-06-30T15:24:41.3517333Z"
    }
  }
}`

const notificationWithoutEvent = `{
  "id": 2,
  "subscriptionId": "213e4167-f493-4941-9b4c-bbb092d0b159",
  "subscriberId": "00000000-0000-0000-0000-000000000000",
  "eventId": "d6ac459c-18b3-44ff-95b5-b5f03db672ea",
  "status": "processing",
  "result": "pending",
  "createdDate": "2023-06-30T16:19:52.033Z",
  "modifiedDate": "2023-06-30T16:19:52.043Z",
  "details": {
    "eventType": "build.complete",
    "publisherId": "tfs",
    "consumerId": "webHooks",
    "consumerActionId": "httpRequest",
    "requestAttempts": 1
  }
}`

func TestNotificationDecode(t *testing.T) {
	var notif Notification
	require.NoError(t, json.Unmarshal([]byte(notificationWithEvent), &notif))

	assert.Equal(t, uint64(41), notif.ID)
	assert.Equal(t, "processing", notif.Status)
	assert.Equal(t, EventTypeBuildComplete, notif.Details.EventType)
	require.NotNil(t, notif.Details.Event)
	assert.Equal(t, "tfs", notif.Details.Event.PublisherID)
	assert.NotNil(t, notif.Details.Event.Resource)
}

func TestNotificationDecode_NoEventData(t *testing.T) {
	// The docs claim details.event is always present; it is not.
	var notif Notification
	require.NoError(t, json.Unmarshal([]byte(notificationWithoutEvent), &notif))

	assert.Equal(t, uint64(2), notif.ID)
	assert.Nil(t, notif.Details.Event)
}

func TestBuildCompleteDecode(t *testing.T) {
	var notif Notification
	require.NoError(t, json.Unmarshal([]byte(notificationWithEvent), &notif))

	raw, err := json.Marshal(notif.Details.Event.Resource)
	require.NoError(t, err)

	var build BuildComplete
	require.NoError(t, json.Unmarshal(raw, &build))

	assert.Equal(t, uint64(1), build.ID)
	assert.Equal(t, "20150407.2", build.BuildNumber)
	assert.Equal(t, "completed", build.Status)
	assert.Equal(t, "succeeded", build.Result)
	assert.Equal(t, "batchedCI", build.Reason)
	assert.Contains(t, build.Links, "web")
	assert.True(t, build.FinishTime.After(build.StartTime))
}
