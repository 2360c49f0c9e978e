package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/smartsplit/smartsplit-backend/types"
)

// MockPublisher implements types.EventPublisher for testing.
type MockPublisher struct {
	mu            sync.RWMutex
	events        map[string][]types.Event // key: groupID
	subscriptions map[string]chan types.Event
	closed        bool
}

var _ types.EventPublisher = (*MockPublisher)(nil)

// NewMockPublisher creates a new mock publisher for testing.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		events:        make(map[string][]types.Event),
		subscriptions: make(map[string]chan types.Event),
	}
}

// Publish records an event and forwards it to any subscriber for the group.
func (m *MockPublisher) Publish(ctx context.Context, groupID string, event types.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("publisher is closed")
	}

	m.events[groupID] = append(m.events[groupID], event)

	for subKey, ch := range m.subscriptions {
		if subKey == groupID {
			select {
			case ch <- event:
			default:
				// Buffer full, skip.
			}
		}
	}
	return nil
}

// Subscribe returns a channel receiving future events for the group.
func (m *MockPublisher) Subscribe(ctx context.Context, groupID string, userID string, filters ...types.EventType) (<-chan types.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fmt.Errorf("publisher is closed")
	}

	ch := make(chan types.Event, 100)
	m.subscriptions[groupID] = ch
	return ch, nil
}

// Unsubscribe removes the group's subscription channel.
func (m *MockPublisher) Unsubscribe(ctx context.Context, groupID string, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ch, ok := m.subscriptions[groupID]; ok {
		close(ch)
		delete(m.subscriptions, groupID)
	}
	return nil
}

// PublishedEvents returns the events recorded for a group.
func (m *MockPublisher) PublishedEvents(groupID string) []types.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]types.Event(nil), m.events[groupID]...)
}

// Close marks the publisher closed; further publishes fail.
func (m *MockPublisher) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}
