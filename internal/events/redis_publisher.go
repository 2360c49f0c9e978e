package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/smartsplit/smartsplit-backend/logger"
	"github.com/smartsplit/smartsplit-backend/types"
)

const publishTimeout = 5 * time.Second

// RedisPublisher implements types.EventPublisher using Redis Pub/Sub. Each
// group has its own channel ("group:{groupID}"); subscribers receive every
// event published for that group after they subscribed.
type RedisPublisher struct {
	redisClient   *redis.Client
	log           *zap.SugaredLogger
	metrics       *eventMetrics
	bufferSize    int
	mu            sync.RWMutex
	subscriptions map[string]subscription // key: groupID:userID
}

var _ types.EventPublisher = (*RedisPublisher)(nil)

type subscription struct {
	pubsub    *redis.PubSub
	cancelCtx context.CancelFunc
}

type eventMetrics struct {
	publishLatency prometheus.Histogram
	errorCount     prometheus.Counter
	eventCount     *prometheus.CounterVec
}

var (
	metricsOnce   sync.Once
	sharedMetrics *eventMetrics
)

func initEventMetrics() *eventMetrics {
	metricsOnce.Do(func() {
		sharedMetrics = &eventMetrics{
			publishLatency: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "smartsplit_event_publish_duration_seconds",
				Help:    "Time taken to publish events",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			}),
			errorCount: promauto.NewCounter(prometheus.CounterOpts{
				Name: "smartsplit_event_errors_total",
				Help: "Total number of event processing errors",
			}),
			eventCount: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "smartsplit_events_published_total",
				Help: "Total number of events published",
			}, []string{"event_type"}),
		}
	})
	return sharedMetrics
}

// NewRedisPublisher returns a new RedisPublisher. bufferSize controls the
// per-subscriber event channel; a slow subscriber that fills its buffer
// drops events rather than blocking the feed.
func NewRedisPublisher(redisClient *redis.Client, bufferSize int) *RedisPublisher {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &RedisPublisher{
		redisClient:   redisClient,
		log:           logger.GetLogger(),
		metrics:       initEventMetrics(),
		bufferSize:    bufferSize,
		subscriptions: make(map[string]subscription),
	}
}

func groupChannel(groupID string) string {
	return fmt.Sprintf("group:%s", groupID)
}

// Publish serializes the event and publishes it on the group's Redis channel.
func (r *RedisPublisher) Publish(ctx context.Context, groupID string, event types.Event) error {
	startTime := time.Now()
	defer func() {
		r.metrics.publishLatency.Observe(time.Since(startTime).Seconds())
	}()

	if err := event.Validate(); err != nil {
		r.metrics.errorCount.Inc()
		return fmt.Errorf("invalid event: %w", err)
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Version == 0 {
		event.Version = 1
	}

	data, err := json.Marshal(event)
	if err != nil {
		r.metrics.errorCount.Inc()
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	r.metrics.eventCount.WithLabelValues(string(event.Type)).Inc()

	r.log.Debugw("Publishing event",
		"channel", groupChannel(groupID),
		"eventType", event.Type,
		"eventID", event.ID,
	)

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := r.redisClient.Publish(publishCtx, groupChannel(groupID), data).Err(); err != nil {
		r.metrics.errorCount.Inc()
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe opens a Redis subscription on the group's channel and returns a
// channel of decoded events. The channel closes when ctx is cancelled or
// Unsubscribe is called for the same group/user pair.
func (r *RedisPublisher) Subscribe(ctx context.Context, groupID string, userID string, filters ...types.EventType) (<-chan types.Event, error) {
	pubsub := r.redisClient.Subscribe(ctx, groupChannel(groupID))

	// Confirm the subscription before handing back a channel.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to group %s: %w", groupID, err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	key := subscriptionKey(groupID, userID)

	r.mu.Lock()
	if existing, ok := r.subscriptions[key]; ok {
		existing.cancelCtx()
		_ = existing.pubsub.Close()
	}
	r.subscriptions[key] = subscription{pubsub: pubsub, cancelCtx: cancel}
	r.mu.Unlock()

	out := make(chan types.Event, r.bufferSize)

	allowed := make(map[types.EventType]bool, len(filters))
	for _, f := range filters {
		allowed[f] = true
	}

	go func() {
		defer close(out)
		defer func() { _ = pubsub.Close() }()

		msgCh := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-msgCh:
				if !ok {
					return
				}
				var event types.Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					r.log.Warnw("Failed to decode event payload", "error", err, "channel", msg.Channel)
					r.metrics.errorCount.Inc()
					continue
				}
				if len(allowed) > 0 && !allowed[event.Type] {
					continue
				}
				select {
				case out <- event:
				default:
					r.log.Warnw("Subscriber buffer full, dropping event",
						"groupID", groupID, "userID", userID, "eventID", event.ID)
				}
			}
		}
	}()

	return out, nil
}

// Unsubscribe tears down the subscription for the group/user pair.
func (r *RedisPublisher) Unsubscribe(ctx context.Context, groupID string, userID string) error {
	key := subscriptionKey(groupID, userID)

	r.mu.Lock()
	sub, ok := r.subscriptions[key]
	if ok {
		delete(r.subscriptions, key)
	}
	r.mu.Unlock()

	if !ok {
		return nil
	}

	sub.cancelCtx()
	return sub.pubsub.Close()
}

func subscriptionKey(groupID, userID string) string {
	return groupID + ":" + userID
}
