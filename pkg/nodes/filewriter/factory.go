package filewriter

import (
	"context"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/protocol"
)

// FileWriterNodeFactory creates FileWriterNode instances.
type FileWriterNodeFactory struct{}

// NewFileWriterNodeFactory creates a new factory instance.
func NewFileWriterNodeFactory() protocol.NodeFactory {
	return &FileWriterNodeFactory{}
}

func (f *FileWriterNodeFactory) Create(ctx context.Context, id string, config map[string]any) (engine.Processor, error) {
	return NewFileWriterNode(id, config)
}

func (f *FileWriterNodeFactory) ID() string {
	return "file-writer"
}

func (f *FileWriterNodeFactory) Name() string {
	return "File Writer"
}

func (f *FileWriterNodeFactory) Description() string {
	return "Writes a table to a delimited text file"
}

func (f *FileWriterNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Destination file path",
			},
			"delimiter": map[string]any{
				"type":        "string",
				"description": "Field delimiter, defaults to a comma",
			},
		},
		"required": []string{"path"},
	}
}
