package types

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hearthledger/budget-backend/errors"
)

type EventType string

const CategoryOverspend = "OVERSPEND"

const (
	EventTypeOverspendProjectCreated  EventType = CategoryOverspend + "_PROJECT_CREATED"
	EventTypeOverspendProjectApproved EventType = CategoryOverspend + "_PROJECT_APPROVED"
	EventTypeOverspendStatusUpdated   EventType = CategoryOverspend + "_STATUS_UPDATED"
	EventTypeOverspendPaymentRecorded EventType = CategoryOverspend + "_PAYMENT_RECORDED"
	EventTypeOverspendTaskCompleted   EventType = CategoryOverspend + "_TASK_COMPLETED"
	EventTypeOverspendTaskDismissed   EventType = CategoryOverspend + "_TASK_DISMISSED"
	EventTypeStatementProcessed       EventType = "STATEMENT_PROCESSED"
)

type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	HouseholdID string    `json:"householdId"`
	UserID      string    `json:"userId,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

// EventMetadata for tracking and debugging
type EventMetadata struct {
	CorrelationID string            `json:"correlationId,omitempty"`
	Source        string            `json:"source"`
	Tags          map[string]string `json:"tags,omitempty"`
}

type Event struct {
	BaseEvent
	Metadata EventMetadata   `json:"metadata"`
	Payload  json.RawMessage `json:"payload"`
}

func (e Event) Validate() error {
	if e.ID == "" {
		return errors.ValidationFailed("invalid event", "event ID is required")
	}
	if e.Type == "" {
		return errors.ValidationFailed("invalid event", "event type is required")
	}
	if e.HouseholdID == "" {
		return errors.ValidationFailed("invalid event", "household ID is required")
	}
	if e.Timestamp.IsZero() {
		return errors.ValidationFailed("invalid event", "timestamp is required")
	}
	return nil
}

// EventPublisher broadcasts household-scoped domain events.
type EventPublisher interface {
	Publish(ctx context.Context, householdID string, event Event) error
	PublishBatch(ctx context.Context, householdID string, events []Event) error
}

type ProjectEventPayload struct {
	ProjectID string        `json:"projectId"`
	MemberID  string        `json:"memberId"`
	Status    ProjectStatus `json:"status"`
}

type TaskEventPayload struct {
	TaskID    string     `json:"taskId"`
	ProjectID string     `json:"projectId"`
	Status    TaskStatus `json:"status"`
}

type StatementProcessedPayload struct {
	StatementID    string   `json:"statementId"`
	FlaggedMembers []string `json:"flaggedMembers"`
	ErrorCount     int      `json:"errorCount"`
}
