// Package gochannel provides an in-process event bus for single-binary
// deployments and tests.
package gochannel

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/dataloom/dataloom/pkg/eventbus"
)

// NewEventBus builds a watermill event bus on an in-memory channel. Publisher
// and subscriber share the same pub/sub, so events never leave the process.
func NewEventBus(logger watermill.LoggerAdapter) eventbus.EventBus {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 64,
		},
		logger,
	)

	return eventbus.NewWatermillEventBus(pubSub, pubSub)
}
