// Package merge provides the two-input table join node.
package merge

import (
	"context"
	"errors"
	"fmt"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/models"
)

const (
	InputPortLeft  = "left"
	InputPortRight = "right"
	OutputPortMain = "main"
)

// MergeNode joins two input tables on a key column. Rows from the left
// table are enriched with the columns of the first matching right row.
type MergeNode struct {
	id       string
	leftKey  string
	rightKey string
	keepAll  bool
}

// NewMergeNode creates a merge from its configuration map. A single "key"
// entry applies to both sides.
func NewMergeNode(id string, config map[string]any) (*MergeNode, error) {
	leftKey, _ := config["leftKey"].(string)
	rightKey, _ := config["rightKey"].(string)

	if key, ok := config["key"].(string); ok && key != "" {
		if leftKey == "" {
			leftKey = key
		}

		if rightKey == "" {
			rightKey = key
		}
	}

	keepAll, _ := config["keepUnmatched"].(bool)

	return &MergeNode{
		id:       id,
		leftKey:  leftKey,
		rightKey: rightKey,
		keepAll:  keepAll,
	}, nil
}

// Process joins the two upstream tables and publishes the combined rows.
func (n *MergeNode) Process(ctx context.Context, node *engine.Node, sample bool) (models.Status, error) {
	out, err := node.Output(OutputPortMain)
	if err != nil {
		return models.StatusError, err
	}

	if n.leftKey == "" || n.rightKey == "" {
		return models.StatusError, errors.New("merge requires a key column for both sides")
	}

	leftRows, leftData, err := n.readSide(node, InputPortLeft)
	if err != nil {
		return models.StatusError, err
	}

	rightRows, _, err := n.readSide(node, InputPortRight)
	if err != nil {
		return models.StatusError, err
	}

	index := make(map[string]map[string]any, len(rightRows))

	for _, row := range rightRows {
		key := fmt.Sprintf("%v", row[n.rightKey])
		if _, seen := index[key]; !seen {
			index[key] = row
		}
	}

	merged := make([]map[string]any, 0, len(leftRows))

	for _, row := range leftRows {
		match, found := index[fmt.Sprintf("%v", row[n.leftKey])]
		if !found && !n.keepAll {
			continue
		}

		combined := make(map[string]any, len(row)+len(match))
		for k, v := range row {
			combined[k] = v
		}

		for k, v := range match {
			if _, taken := combined[k]; !taken {
				combined[k] = v
			}
		}

		merged = append(merged, combined)
	}

	schema := map[string]any{"fields": fieldsOf(merged)}

	data := &models.NodeData{
		Type:   leftData.Type,
		Name:   leftData.Name,
		Schema: schema,
	}

	if sample {
		data.DataExample = merged
	} else {
		data.Data = merged
	}

	return models.StatusValid, out.SetData(data, node)
}

func (n *MergeNode) readSide(node *engine.Node, port string) ([]map[string]any, *models.NodeData, error) {
	in, err := node.Input(port)
	if err != nil {
		return nil, nil, err
	}

	upstream, err := in.GetData()
	if err != nil {
		return nil, nil, err
	}

	rows, ok := upstream.Rows()
	if !ok {
		return nil, nil, fmt.Errorf("%s input of node %s is not tabular", port, n.id)
	}

	return rows, upstream, nil
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
