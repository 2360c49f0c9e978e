// Package events implements the group-scoped realtime change feed. Writes to
// the ledger publish events here; subscribers (the SSE stream) use them as a
// signal to refetch and recompute balances. The engine itself never depends
// on this package.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/smartsplit/smartsplit-backend/errors"
	"github.com/smartsplit/smartsplit-backend/types"
)

// PublishWithContext constructs a standard types.Event and publishes it via
// the provided publisher. Used by services after a successful ledger write.
func PublishWithContext(ctx context.Context, publisher types.EventPublisher, eventType types.EventType, groupID, userID string, data map[string]interface{}, source string) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, errors.ServerError, "failed to marshal event data")
	}

	event := types.Event{
		BaseEvent: types.BaseEvent{
			ID:        uuid.NewString(),
			Type:      eventType,
			GroupID:   groupID,
			UserID:    userID,
			Timestamp: time.Now(),
			Version:   1,
		},
		Metadata: types.EventMetadata{
			Source: source,
		},
		Payload: payload,
	}

	if err := publisher.Publish(ctx, groupID, event); err != nil {
		return errors.Wrap(err, errors.ServerError, "failed to publish event")
	}
	return nil
}
