package merge

import (
	"context"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/protocol"
)

// MergeNodeFactory creates MergeNode instances.
type MergeNodeFactory struct{}

// NewMergeNodeFactory creates a new factory instance.
func NewMergeNodeFactory() protocol.NodeFactory {
	return &MergeNodeFactory{}
}

func (f *MergeNodeFactory) Create(ctx context.Context, id string, config map[string]any) (engine.Processor, error) {
	return NewMergeNode(id, config)
}

func (f *MergeNodeFactory) ID() string {
	return "merge"
}

func (f *MergeNodeFactory) Name() string {
	return "Merge"
}

func (f *MergeNodeFactory) Description() string {
	return "Joins two tables on a key column"
}

func (f *MergeNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"key": map[string]any{
				"type":        "string",
				"description": "Key column shared by both sides",
			},
			"leftKey": map[string]any{
				"type":        "string",
				"description": "Key column of the left table",
			},
			"rightKey": map[string]any{
				"type":        "string",
				"description": "Key column of the right table",
			},
			"keepUnmatched": map[string]any{
				"type":        "boolean",
				"description": "Keep left rows without a match",
			},
		},
	}
}
