// Package protocol defines the interfaces and contracts for pluggable nodes.
package protocol

import (
	"context"

	"github.com/dataloom/dataloom/pkg/engine"
)

// NodeFactory creates node processors and provides metadata about the type.
type NodeFactory interface {
	// Create builds a processor instance from the node's configuration map.
	Create(ctx context.Context, id string, config map[string]any) (engine.Processor, error)

	// ID returns the type name the factory is registered under.
	ID() string

	// Name returns the human-readable name for this node type.
	Name() string

	// Description returns a description of what this node does.
	Description() string

	// Schema returns the JSON schema for configuring this node, or nil when
	// the type takes free-form configuration.
	Schema() map[string]any
}
