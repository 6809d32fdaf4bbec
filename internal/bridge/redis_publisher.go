// Package bridge mirrors session events onto a Redis Stream, fire-and-forget,
// so a fleet backend can replay or analyze navigation history. No component
// of internal/session or internal/driver reads this data back.
package bridge

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vivrish/navgateway/internal/events"
)

// eventStream is the single stream every deployment writes to.
const eventStream = "navgateway:events"

// EventPublisher writes Events to Redis via XADD. It is safe for concurrent
// use by many session goroutines.
type EventPublisher struct {
	client *redis.Client
	codec  *events.Codec
	logger *zap.Logger
}

// NewEventPublisher dials redisURL and pings it once. A dial failure is
// returned to the caller, who per SPEC_FULL.md §4.7/§7 must treat it as a
// startup warning, not a fatal error, and fall back to a no-op publisher.
func NewEventPublisher(redisURL string, logger *zap.Logger) (*EventPublisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	logger.Info("connected to redis event stream")
	return &EventPublisher{client: client, codec: events.NewCodec(), logger: logger}, nil
}

// Publish mirrors ev onto the stream. Errors are the caller's to log; this
// method never blocks beyond ctx's deadline.
func (p *EventPublisher) Publish(ctx context.Context, ev events.Event) error {
	payload, err := p.codec.Encode(ev)
	if err != nil {
		return err
	}
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: eventStream,
		MaxLen: 100000,
		Approx: true,
		Values: map[string]interface{}{
			"session_id": ev.SessionID,
			"robot_name": ev.RobotName,
			"kind":       string(ev.Kind),
			"timestamp":  ev.Timestamp,
			"payload":    string(payload),
		},
	}).Err()
}

// Close releases the Redis connection.
func (p *EventPublisher) Close() error {
	return p.client.Close()
}

// NoopPublisher is used in place of EventPublisher when Redis is unreachable
// at startup, so the rest of the gateway never has to check for a nil
// publisher.
type NoopPublisher struct{}

// Publish does nothing and never fails.
func (NoopPublisher) Publish(ctx context.Context, ev events.Event) error { return nil }

// Close does nothing and never fails.
func (NoopPublisher) Close() error { return nil }

// Publisher is satisfied by both EventPublisher and NoopPublisher.
type Publisher interface {
	Publish(ctx context.Context, ev events.Event) error
	Close() error
}
