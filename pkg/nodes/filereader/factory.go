package filereader

import (
	"context"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/protocol"
)

// FileReaderNodeFactory creates FileReaderNode instances.
type FileReaderNodeFactory struct{}

// NewFileReaderNodeFactory creates a new factory instance.
func NewFileReaderNodeFactory() protocol.NodeFactory {
	return &FileReaderNodeFactory{}
}

func (f *FileReaderNodeFactory) Create(ctx context.Context, id string, config map[string]any) (engine.Processor, error) {
	return NewFileReaderNode(id, config)
}

func (f *FileReaderNodeFactory) ID() string {
	return "file-reader"
}

func (f *FileReaderNodeFactory) Name() string {
	return "File Reader"
}

func (f *FileReaderNodeFactory) Description() string {
	return "Reads a delimited text file into a table"
}

func (f *FileReaderNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Path of the file to read",
			},
			"delimiter": map[string]any{
				"type":        "string",
				"description": "Field delimiter, defaults to a comma",
			},
			"sampleRows": map[string]any{
				"type":        "number",
				"description": "Row bound for sample runs",
			},
		},
		"required": []string{"path"},
	}
}
