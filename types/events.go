package types

import (
	"context"
	"encoding/json"
	"time"

	"github.com/smartsplit/smartsplit-backend/errors"
)

type EventType string

const (
	CategoryGroup       = "GROUP"
	CategoryExpense     = "EXPENSE"
	CategoryConsumption = "CONSUMPTION"
)

const (
	// Group events
	EventTypeGroupCreated  EventType = CategoryGroup + "_CREATED"
	EventTypeGroupUpdated  EventType = CategoryGroup + "_UPDATED"
	EventTypeGroupDeleted  EventType = CategoryGroup + "_DELETED"
	EventTypeMemberJoined  EventType = CategoryGroup + "_MEMBER_JOINED"
	EventTypeMemberRemoved EventType = CategoryGroup + "_MEMBER_REMOVED"

	// Expense events
	EventTypeExpenseCreated EventType = CategoryExpense + "_CREATED"
	EventTypeExpenseDeleted EventType = CategoryExpense + "_DELETED"

	// Consumption events
	EventTypeConsumptionAdded   EventType = CategoryConsumption + "_ADDED"
	EventTypeConsumptionUpdated EventType = CategoryConsumption + "_UPDATED"
	EventTypeConsumptionDeleted EventType = CategoryConsumption + "_DELETED"
	EventTypeConsumptionSettled EventType = CategoryConsumption + "_SETTLED"
)

// BaseEvent carries the fields common to every change-feed event.
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	GroupID   string    `json:"groupId"`
	UserID    string    `json:"userId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Version   int       `json:"version"`
}

// EventMetadata for tracking and debugging.
type EventMetadata struct {
	CorrelationID string `json:"correlationId,omitempty"`
	Source        string `json:"source"`
}

// Event is a single entry on a group's realtime change feed. Consumers use
// it as a signal to refetch and recompute balances and settlements.
type Event struct {
	BaseEvent
	Metadata EventMetadata   `json:"metadata"`
	Payload  json.RawMessage `json:"payload"`
}

func (e Event) Validate() error {
	if e.Type == "" {
		return errors.ValidationFailed("invalid event", "event type is required")
	}
	if e.GroupID == "" {
		return errors.ValidationFailed("invalid event", "group ID is required")
	}
	return nil
}

// EventPublisher publishes group-scoped change events and serves
// subscriptions for realtime consumers.
type EventPublisher interface {
	Publish(ctx context.Context, groupID string, event Event) error
	Subscribe(ctx context.Context, groupID string, userID string, filters ...EventType) (<-chan Event, error)
	Unsubscribe(ctx context.Context, groupID string, userID string) error
}
