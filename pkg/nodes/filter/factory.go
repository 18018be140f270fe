package filter

import (
	"context"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/protocol"
)

// FilterNodeFactory creates FilterNode instances.
type FilterNodeFactory struct{}

// NewFilterNodeFactory creates a new factory instance.
func NewFilterNodeFactory() protocol.NodeFactory {
	return &FilterNodeFactory{}
}

func (f *FilterNodeFactory) Create(ctx context.Context, id string, config map[string]any) (engine.Processor, error) {
	return NewFilterNode(id, config)
}

func (f *FilterNodeFactory) ID() string {
	return "filter"
}

func (f *FilterNodeFactory) Name() string {
	return "Filter"
}

func (f *FilterNodeFactory) Description() string {
	return "Keeps rows matching a column comparison"
}

func (f *FilterNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"column": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Column the comparison reads",
			},
			"operator": map[string]any{
				"type": "string",
				"enum": []string{"eq", "neq", "contains", "gt", "gte", "lt", "lte"},
			},
			"value": map[string]any{
				"description": "Right-hand side of the comparison",
			},
		},
		"required": []string{"column"},
	}
}
