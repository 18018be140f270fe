package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/dataloom/dataloom/pkg/eventbus"
	"github.com/dataloom/dataloom/pkg/eventbus/gochannel"
	"github.com/dataloom/dataloom/pkg/eventbus/kafka"
)

// NewEventBus builds an event bus for the given provider. "kafka" requires
// KAFKA_BROKERS; anything else gets the in-process channel bus.
func NewEventBus(provider string, logger *slog.Logger) (eventbus.EventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	switch provider {
	case "kafka":
		bus, err := kafka.NewEventBus(wmLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka event bus: %w", err)
		}

		return bus, nil
	default:
		return gochannel.NewEventBus(wmLogger), nil
	}
}
