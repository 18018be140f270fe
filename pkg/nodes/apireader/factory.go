package apireader

import (
	"context"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/protocol"
)

// APIReaderNodeFactory creates APIReaderNode instances.
type APIReaderNodeFactory struct{}

// NewAPIReaderNodeFactory creates a new factory instance.
func NewAPIReaderNodeFactory() protocol.NodeFactory {
	return &APIReaderNodeFactory{}
}

func (f *APIReaderNodeFactory) Create(ctx context.Context, id string, config map[string]any) (engine.Processor, error) {
	return NewAPIReaderNode(id, config)
}

func (f *APIReaderNodeFactory) ID() string {
	return "api-reader"
}

func (f *APIReaderNodeFactory) Name() string {
	return "API Reader"
}

func (f *APIReaderNodeFactory) Description() string {
	return "Fetches a JSON document from an HTTP endpoint"
}

func (f *APIReaderNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Endpoint to fetch",
			},
			"headers": map[string]any{
				"type":        "object",
				"description": "Additional request headers",
			},
			"sampleRows": map[string]any{
				"type":        "number",
				"description": "Row bound for sample runs",
			},
		},
		"required": []string{"url"},
	}
}
