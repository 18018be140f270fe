// Package sqlreader provides the SQL database source node.
package sqlreader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Postgres driver registration.
	_ "github.com/lib/pq"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/models"
)

const OutputPortMain = "main"

const defaultSampleRows = 10

// SQLReaderNode materializes the result of a SQL query as a tabular envelope.
type SQLReaderNode struct {
	id         string
	driver     string
	dsn        string
	query      string
	sampleRows int
}

// NewSQLReaderNode creates a SQL reader from its configuration map.
func NewSQLReaderNode(id string, config map[string]any) (*SQLReaderNode, error) {
	driver, _ := config["driver"].(string)
	if driver == "" {
		driver = "postgres"
	}

	dsn, _ := config["dsn"].(string)
	query, _ := config["query"].(string)

	sampleRows := defaultSampleRows
	if raw, ok := config["sampleRows"].(float64); ok && raw > 0 {
		sampleRows = int(raw)
	}

	return &SQLReaderNode{
		id:         id,
		driver:     driver,
		dsn:        dsn,
		query:      query,
		sampleRows: sampleRows,
	}, nil
}

// Blocking marks the database read for worker-pool dispatch.
func (n *SQLReaderNode) Blocking() bool {
	return true
}

// Process runs the configured query and publishes its rows. A sample run
// bounds the result set and fills the preview slot only.
func (n *SQLReaderNode) Process(ctx context.Context, node *engine.Node, sample bool) (models.Status, error) {
	out, err := node.Output(OutputPortMain)
	if err != nil {
		return models.StatusError, err
	}

	if n.dsn == "" || n.query == "" {
		return models.StatusError, errors.New("sql reader requires both 'dsn' and 'query'")
	}

	db, err := sql.Open(n.driver, n.dsn)
	if err != nil {
		return models.StatusError, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	query := n.query
	if sample {
		query = fmt.Sprintf("SELECT * FROM (%s) AS sample_query LIMIT %d", n.query, n.sampleRows)
	}

	result, err := db.QueryContext(ctx, query)
	if err != nil {
		return models.StatusError, fmt.Errorf("query failed: %w", err)
	}
	defer result.Close()

	columns, err := result.Columns()
	if err != nil {
		return models.StatusError, fmt.Errorf("failed to read columns: %w", err)
	}

	var rows []map[string]any

	for result.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))

		for i := range values {
			pointers[i] = &values[i]
		}

		if err := result.Scan(pointers...); err != nil {
			return models.StatusError, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, column := range columns {
			if b, ok := values[i].([]byte); ok {
				row[column] = string(b)
			} else {
				row[column] = values[i]
			}
		}

		rows = append(rows, row)
	}

	if err := result.Err(); err != nil {
		return models.StatusError, fmt.Errorf("row iteration failed: %w", err)
	}

	schema := map[string]any{"fields": columns}

	data := &models.NodeData{
		Type:   models.DataTypeMySQL,
		Name:   n.id,
		Schema: schema,
	}

	if sample {
		data.DataExample = rows
	} else {
		data.Data = rows
	}

	return models.StatusValid, out.SetData(data, node)
}
