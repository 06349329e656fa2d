package events

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/hearthledger/budget-backend/logger"
	"github.com/hearthledger/budget-backend/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func newTestPublisher(t *testing.T) (*RedisPublisher, redismock.ClientMock) {
	t.Helper()
	resetMetricsForTesting()
	rdb, mock := redismock.NewClientMock()
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisPublisher(rdb, Config{PublishTimeout: time.Second}), mock
}

// decodedEvent matches a publish call whose message decodes to an event of the given type.
func decodedEvent(channel string, eventType types.EventType, got *types.Event) redismock.CustomMatch {
	return func(expected, actual []interface{}) error {
		if actual[1] != channel {
			return fmt.Errorf("unexpected channel %v", actual[1])
		}
		raw, ok := actual[2].([]byte)
		if !ok {
			return fmt.Errorf("unexpected message type %T", actual[2])
		}
		var ev types.Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			return err
		}
		if ev.Type != eventType {
			return fmt.Errorf("unexpected event type %s", ev.Type)
		}
		if got != nil {
			*got = ev
		}
		return nil
	}
}

func projectEvent(householdID string) types.Event {
	payload, _ := json.Marshal(types.ProjectEventPayload{ProjectID: "proj-1", MemberID: "u-maria", Status: types.ProjectStatusPendingApproval})
	return types.Event{
		BaseEvent: types.BaseEvent{
			Type:        types.EventTypeOverspendProjectCreated,
			HouseholdID: householdID,
			UserID:      "u-maria",
		},
		Metadata: types.EventMetadata{Source: "test"},
		Payload:  payload,
	}
}

func TestRedisPublisher_Publish(t *testing.T) {
	publisher, mock := newTestPublisher(t)

	var published types.Event
	mock.CustomMatch(decodedEvent("household:hh-1", types.EventTypeOverspendProjectCreated, &published)).
		ExpectPublish("household:hh-1", "").SetVal(1)

	err := publisher.Publish(context.Background(), "hh-1", projectEvent("hh-1"))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.NotEmpty(t, published.ID, "ID is defaulted")
	assert.False(t, published.Timestamp.IsZero(), "timestamp is defaulted")
	assert.Equal(t, 1, published.Version)
	assert.Equal(t, "hh-1", published.HouseholdID)
	assert.JSONEq(t, `{"projectId":"proj-1","memberId":"u-maria","status":"pending_approval"}`, string(published.Payload))
	assert.Equal(t, 1.0, testutil.ToFloat64(publisher.metrics.eventCount.WithLabelValues("publish", string(types.EventTypeOverspendProjectCreated))))
}

func TestRedisPublisher_PublishDefaultsHousehold(t *testing.T) {
	publisher, mock := newTestPublisher(t)

	var published types.Event
	mock.CustomMatch(decodedEvent("household:hh-2", types.EventTypeStatementProcessed, &published)).
		ExpectPublish("household:hh-2", "").SetVal(0)

	err := publisher.Publish(context.Background(), "hh-2", types.Event{
		BaseEvent: types.BaseEvent{Type: types.EventTypeStatementProcessed},
	})
	require.NoError(t, err)
	assert.Equal(t, "hh-2", published.HouseholdID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisPublisher_PublishErrors(t *testing.T) {
	tests := []struct {
		name      string
		household string
		event     types.Event
		setup     func(redismock.ClientMock)
		errKind   string
	}{
		{
			name:      "missing type",
			household: "hh-1",
			event:     types.Event{BaseEvent: types.BaseEvent{HouseholdID: "hh-1"}},
			setup:     func(redismock.ClientMock) {},
			errKind:   "validation",
		},
		{
			name:      "household mismatch",
			household: "hh-1",
			event:     projectEvent("hh-other"),
			setup:     func(redismock.ClientMock) {},
			errKind:   "validation",
		},
		{
			name:      "redis failure",
			household: "hh-1",
			event:     projectEvent("hh-1"),
			setup: func(m redismock.ClientMock) {
				m.CustomMatch(decodedEvent("household:hh-1", types.EventTypeOverspendProjectCreated, nil)).
					ExpectPublish("household:hh-1", "").SetErr(assert.AnError)
			},
			errKind: "redis",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher, mock := newTestPublisher(t)
			tt.setup(mock)

			err := publisher.Publish(context.Background(), tt.household, tt.event)
			require.Error(t, err)
			assert.Equal(t, 1.0, testutil.ToFloat64(publisher.metrics.errorCount.WithLabelValues("publish", tt.errKind)))
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedisPublisher_PublishBatch(t *testing.T) {
	publisher, mock := newTestPublisher(t)

	mock.CustomMatch(decodedEvent("household:hh-1", types.EventTypeOverspendProjectCreated, nil)).
		ExpectPublish("household:hh-1", "").SetVal(1)
	mock.CustomMatch(decodedEvent("household:hh-1", types.EventTypeStatementProcessed, nil)).
		ExpectPublish("household:hh-1", "").SetVal(1)

	batch := []types.Event{
		projectEvent("hh-1"),
		{BaseEvent: types.BaseEvent{Type: types.EventTypeStatementProcessed, HouseholdID: "hh-1"}},
	}
	require.NoError(t, publisher.PublishBatch(context.Background(), "hh-1", batch))
	require.NoError(t, mock.ExpectationsWereMet())

	t.Run("empty batch is a no-op", func(t *testing.T) {
		assert.NoError(t, publisher.PublishBatch(context.Background(), "hh-1", nil))
	})

	t.Run("invalid event aborts the batch", func(t *testing.T) {
		err := publisher.PublishBatch(context.Background(), "hh-1", []types.Event{{}})
		assert.Error(t, err)
	})
}

func TestRedisPublisher_Shutdown(t *testing.T) {
	publisher, mock := newTestPublisher(t)

	require.NoError(t, publisher.Shutdown(context.Background()))

	err := publisher.Publish(context.Background(), "hh-1", projectEvent("hh-1"))
	assert.Error(t, err)
	assert.Error(t, publisher.PublishBatch(context.Background(), "hh-1", []types.Event{projectEvent("hh-1")}))
	require.NoError(t, mock.ExpectationsWereMet())
}
