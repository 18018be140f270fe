package flatten

import (
	"context"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/protocol"
)

// FlattenNodeFactory creates FlattenNode instances.
type FlattenNodeFactory struct{}

// NewFlattenNodeFactory creates a new factory instance.
func NewFlattenNodeFactory() protocol.NodeFactory {
	return &FlattenNodeFactory{}
}

func (f *FlattenNodeFactory) Create(ctx context.Context, id string, config map[string]any) (engine.Processor, error) {
	return NewFlattenNode(id, config)
}

func (f *FlattenNodeFactory) ID() string {
	return "flatten"
}

func (f *FlattenNodeFactory) Name() string {
	return "Flatten"
}

func (f *FlattenNodeFactory) Description() string {
	return "Lifts nested object columns to the top level"
}

func (f *FlattenNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"separator": map[string]any{
				"type":        "string",
				"description": "Path segment separator, defaults to a dot",
			},
			"maxDepth": map[string]any{
				"type":        "number",
				"description": "Nesting levels to flatten, 0 means unlimited",
			},
		},
	}
}
