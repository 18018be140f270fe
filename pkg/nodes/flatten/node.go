// Package flatten provides the nested column flatten node.
package flatten

import (
	"context"
	"fmt"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/models"
)

const (
	InputPortMain  = "main"
	OutputPortMain = "main"
)

const defaultSeparator = "."

// FlattenNode lifts nested object columns to the top level, joining path
// segments with a separator. "address": {"city": "x"} becomes "address.city".
type FlattenNode struct {
	id        string
	separator string
	maxDepth  int
}

// NewFlattenNode creates a flatten from its configuration map.
func NewFlattenNode(id string, config map[string]any) (*FlattenNode, error) {
	separator, _ := config["separator"].(string)
	if separator == "" {
		separator = defaultSeparator
	}

	maxDepth := 0
	if raw, ok := config["maxDepth"].(float64); ok && raw > 0 {
		maxDepth = int(raw)
	}

	return &FlattenNode{
		id:        id,
		separator: separator,
		maxDepth:  maxDepth,
	}, nil
}

// Process flattens every row of the upstream table and publishes the result.
func (n *FlattenNode) Process(ctx context.Context, node *engine.Node, sample bool) (models.Status, error) {
	in, err := node.Input(InputPortMain)
	if err != nil {
		return models.StatusError, err
	}

	out, err := node.Output(OutputPortMain)
	if err != nil {
		return models.StatusError, err
	}

	upstream, err := in.GetData()
	if err != nil {
		return models.StatusError, err
	}

	rows, ok := upstream.Rows()
	if !ok {
		return models.StatusError, fmt.Errorf("input of node %s is not tabular", n.id)
	}

	flattened := make([]map[string]any, 0, len(rows))

	for _, row := range rows {
		flat := make(map[string]any, len(row))
		n.flattenInto(flat, "", row, 0)
		flattened = append(flattened, flat)
	}

	schema := map[string]any{"fields": fieldsOf(flattened)}

	data := &models.NodeData{
		Type:   upstream.Type,
		Name:   upstream.Name,
		Schema: schema,
	}

	if sample {
		data.DataExample = flattened
	} else {
		data.Data = flattened
	}

	return models.StatusValid, out.SetData(data, node)
}

func (n *FlattenNode) flattenInto(dst map[string]any, prefix string, src map[string]any, depth int) {
	for key, value := range src {
		name := key
		if prefix != "" {
			name = prefix + n.separator + key
		}

		nested, ok := value.(map[string]any)
		if ok && (n.maxDepth == 0 || depth < n.maxDepth) {
			n.flattenInto(dst, name, nested, depth+1)
			continue
		}

		dst[name] = value
	}
}

func fieldsOf(rows []map[string]any) []string {
	if len(rows) == 0 {
		return []string{}
	}

	fields := make([]string, 0, len(rows[0]))
	for field := range rows[0] {
		fields = append(fields, field)
	}

	return fields
}
