package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/hearthledger/budget-backend/types"
)

// MemoryPublisher implements types.EventPublisher by recording events in
// process. The replay CLI and tests use it in place of Redis.
type MemoryPublisher struct {
	mu     sync.RWMutex
	events map[string][]types.Event // key: householdID
	closed bool
}

var _ types.EventPublisher = (*MemoryPublisher)(nil)

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{
		events: make(map[string][]types.Event),
	}
}

func (m *MemoryPublisher) Publish(ctx context.Context, householdID string, event types.Event) error {
	return m.PublishBatch(ctx, householdID, []types.Event{event})
}

func (m *MemoryPublisher) PublishBatch(ctx context.Context, householdID string, events []types.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("publisher is closed")
	}

	for i := range events {
		if _, _, err := prepare(householdID, &events[i]); err != nil {
			return err
		}
	}
	m.events[householdID] = append(m.events[householdID], events...)
	return nil
}

// Events returns the events recorded for a household.
func (m *MemoryPublisher) Events(householdID string) []types.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]types.Event(nil), m.events[householdID]...)
}

// Reset clears all recorded events.
func (m *MemoryPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = make(map[string][]types.Event)
	m.closed = false
}

// Close marks the publisher as closed
func (m *MemoryPublisher) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}
