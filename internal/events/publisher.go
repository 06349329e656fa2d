package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hearthledger/budget-backend/errors"
	"github.com/hearthledger/budget-backend/types"
)

// PublishEventWithContext builds a standard types.Event around payload and
// publishes it to the household's channel.
func PublishEventWithContext(ctx context.Context, publisher types.EventPublisher, eventType types.EventType, householdID, userID string, payload interface{}, source string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, errors.ServerError, "Failed to marshal event payload")
	}

	event := types.Event{
		BaseEvent: types.BaseEvent{
			ID:          uuid.New().String(),
			Type:        eventType,
			HouseholdID: householdID,
			UserID:      userID,
			Timestamp:   time.Now(),
			Version:     1,
		},
		Metadata: types.EventMetadata{
			Source: source,
		},
		Payload: data,
	}

	if err := publisher.Publish(ctx, householdID, event); err != nil {
		return errors.Wrap(err, errors.ServerError, "Failed to publish event")
	}
	return nil
}
