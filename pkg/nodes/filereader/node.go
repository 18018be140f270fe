// Package filereader provides the delimited-file source node.
package filereader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/models"
)

const OutputPortMain = "main"

// defaultSampleRows bounds the preview produced by a sample run.
const defaultSampleRows = 10

// FileReaderNode reads a delimited text file into a tabular envelope.
type FileReaderNode struct {
	id         string
	path       string
	delimiter  rune
	sampleRows int
}

// NewFileReaderNode creates a file reader from its configuration map.
func NewFileReaderNode(id string, config map[string]any) (*FileReaderNode, error) {
	path, _ := config["path"].(string)

	delimiter := ','
	if raw, ok := config["delimiter"].(string); ok && raw != "" {
		delimiter = []rune(raw)[0]
	}

	sampleRows := defaultSampleRows
	if raw, ok := config["sampleRows"].(float64); ok && raw > 0 {
		sampleRows = int(raw)
	}

	return &FileReaderNode{
		id:         id,
		path:       path,
		delimiter:  delimiter,
		sampleRows: sampleRows,
	}, nil
}

// Blocking marks the file scan for worker-pool dispatch.
func (n *FileReaderNode) Blocking() bool {
	return true
}

// Process reads the configured file and publishes its rows. A sample run
// reads at most sampleRows data rows and fills the preview slot only.
func (n *FileReaderNode) Process(ctx context.Context, node *engine.Node, sample bool) (models.Status, error) {
	out, err := node.Output(OutputPortMain)
	if err != nil {
		return models.StatusError, err
	}

	f, err := os.Open(n.path)
	if err != nil {
		return models.StatusError, fmt.Errorf("failed to open %s: %w", n.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = n.delimiter

	header, err := reader.Read()
	if err != nil {
		return models.StatusError, fmt.Errorf("failed to read header of %s: %w", n.path, err)
	}

	var rows []map[string]any

	for {
		if sample && len(rows) >= n.sampleRows {
			break
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return models.StatusError, fmt.Errorf("failed to read %s: %w", n.path, err)
		}

		row := make(map[string]any, len(header))
		for i, field := range header {
			if i < len(record) {
				row[field] = record[i]
			}
		}

		rows = append(rows, row)
	}

	schema := map[string]any{"fields": header}

	return models.StatusValid, out.SetData(models.NewTabular(n.path, schema, rows, sample), node)
}
