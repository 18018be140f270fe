// Package filewriter provides the delimited file sink node.
package filewriter

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/models"
)

const (
	InputPortMain  = "main"
	OutputPortMain = "main"
)

// FileWriterNode writes its input table to a delimited text file and
// republishes the table so downstream nodes can keep consuming it.
type FileWriterNode struct {
	id        string
	path      string
	delimiter rune
}

// NewFileWriterNode creates a file writer from its configuration map.
func NewFileWriterNode(id string, config map[string]any) (*FileWriterNode, error) {
	path, _ := config["path"].(string)

	delimiter := ','
	if raw, ok := config["delimiter"].(string); ok && raw != "" {
		delimiter = []rune(raw)[0]
	}

	return &FileWriterNode{
		id:        id,
		path:      path,
		delimiter: delimiter,
	}, nil
}

// Blocking marks the file write for worker-pool dispatch.
func (n *FileWriterNode) Blocking() bool {
	return true
}

// Process writes the upstream rows as a header plus records. Sample runs
// skip the write and only forward the preview.
func (n *FileWriterNode) Process(ctx context.Context, node *engine.Node, sample bool) (models.Status, error) {
	in, err := node.Input(InputPortMain)
	if err != nil {
		return models.StatusError, err
	}

	out, err := node.Output(OutputPortMain)
	if err != nil {
		return models.StatusError, err
	}

	if n.path == "" {
		return models.StatusError, errors.New("file writer requires a 'path'")
	}

	upstream, err := in.GetData()
	if err != nil {
		return models.StatusError, err
	}

	rows, ok := upstream.Rows()
	if !ok {
		return models.StatusError, fmt.Errorf("input of node %s is not tabular", n.id)
	}

	if !sample {
		if err := n.write(rows); err != nil {
			return models.StatusError, err
		}
	}

	data := &models.NodeData{
		Type:   models.DataTypeFile,
		Name:   n.path,
		Schema: upstream.Schema,
	}

	if sample {
		data.DataExample = rows
	} else {
		data.Data = rows
	}

	return models.StatusValid, out.SetData(data, node)
}

func (n *FileWriterNode) write(rows []map[string]any) error {
	file, err := os.Create(n.path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", n.path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = n.delimiter

	header := headerOf(rows)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range rows {
		record := make([]string, len(header))
		for i, column := range header {
			if value, ok := row[column]; ok && value != nil {
				record[i] = fmt.Sprintf("%v", value)
			}
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()

	return writer.Error()
}

func headerOf(rows []map[string]any) []string {
	if len(rows) == 0 {
		return []string{}
	}

	header := make([]string, 0, len(rows[0]))
	for column := range rows[0] {
		header = append(header, column)
	}

	sort.Strings(header)

	return header
}
