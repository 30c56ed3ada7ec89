// Package eventbus publishes watchdog events onto a watermill channel.
package eventbus

import (
	"context"

	"github.com/dwellwatch/dwellwatch/pkg/events"
)

// Event is anything the bus can carry: it knows its type and its topic.
type Event interface {
	GetType() events.EventType
	Topic() string
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

type EventBus interface {
	EventPublisher
	Close() error
	GenerateID() string
}
