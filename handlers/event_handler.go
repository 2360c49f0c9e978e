package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartsplit/smartsplit-backend/logger"
	"github.com/smartsplit/smartsplit-backend/types"
)

// sseHeartbeatInterval keeps idle connections alive through proxies.
const sseHeartbeatInterval = 30 * time.Second

// EventHandler streams a group's change feed to clients over server-sent
// events. Clients treat every event as a signal to refetch balances.
type EventHandler struct {
	groupService GroupServiceInterface
	publisher    types.EventPublisher
}

func NewEventHandler(groupService GroupServiceInterface, publisher types.EventPublisher) *EventHandler {
	return &EventHandler{
		groupService: groupService,
		publisher:    publisher,
	}
}

// StreamEventsHandler subscribes the caller to the group's event feed and
// streams events until the client disconnects.
func (h *EventHandler) StreamEventsHandler(c *gin.Context) {
	log := logger.GetLogger()

	groupID, ok := requireGroupID(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	// Membership check; GetGroup returns access-denied for non-members.
	if _, err := h.groupService.GetGroup(c.Request.Context(), groupID, userID); err != nil {
		_ = c.Error(err)
		return
	}

	eventChan, err := h.publisher.Subscribe(c.Request.Context(), groupID, userID)
	if err != nil {
		log.Errorw("Failed to subscribe to group events",
			"group_id", groupID,
			"user_id", userID,
			"error", err)
		_ = c.Error(err)
		return
	}
	defer func() {
		if unsubErr := h.publisher.Unsubscribe(c.Request.Context(), groupID, userID); unsubErr != nil {
			log.Warnw("Failed to unsubscribe from group events",
				"group_id", groupID,
				"user_id", userID,
				"error", unsubErr)
		}
	}()

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Streaming unsupported"})
		return
	}

	log.Infow("SSE stream established", "group_id", groupID, "user_id", userID)

	heartbeat := time.NewTicker(sseHeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case event, open := <-eventChan:
			if !open {
				log.Infow("Event channel closed for SSE stream",
					"group_id", groupID, "user_id", userID)
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				log.Errorw("Failed to marshal event for SSE", "error", err)
				continue
			}
			fmt.Fprintf(c.Writer, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Type, data)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": heartbeat\n\n")
			flusher.Flush()
		case <-c.Request.Context().Done():
			log.Infow("SSE client disconnected", "group_id", groupID, "user_id", userID)
			return
		}
	}
}
