// Package eventbus provides the event transport used to broadcast graph
// execution lifecycle events. Execution never depends on the bus: publishing
// is fire-and-forget from the engine's point of view.
package eventbus

import (
	"context"

	"github.com/dataloom/dataloom/pkg/events"
)

type Event interface {
	GetType() events.EventType
}

type EventHandler func(ctx context.Context, event any) error

type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler)
	Subscribe(ctx context.Context) error
}

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}
