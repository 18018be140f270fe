package sqlreader

import (
	"context"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/protocol"
)

// SQLReaderNodeFactory creates SQLReaderNode instances.
type SQLReaderNodeFactory struct{}

// NewSQLReaderNodeFactory creates a new factory instance.
func NewSQLReaderNodeFactory() protocol.NodeFactory {
	return &SQLReaderNodeFactory{}
}

func (f *SQLReaderNodeFactory) Create(ctx context.Context, id string, config map[string]any) (engine.Processor, error) {
	return NewSQLReaderNode(id, config)
}

func (f *SQLReaderNodeFactory) ID() string {
	return "sql-reader"
}

func (f *SQLReaderNodeFactory) Name() string {
	return "SQL Reader"
}

func (f *SQLReaderNodeFactory) Description() string {
	return "Materializes the result of a SQL query as a table"
}

func (f *SQLReaderNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"driver": map[string]any{
				"type":        "string",
				"description": "database/sql driver name, defaults to postgres",
			},
			"dsn": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Connection string",
			},
			"query": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Query whose result becomes the output table",
			},
			"sampleRows": map[string]any{
				"type":        "number",
				"description": "Row bound for sample runs",
			},
		},
		"required": []string{"dsn", "query"},
	}
}
