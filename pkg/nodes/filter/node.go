// Package filter provides the row filter transform node.
package filter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/models"
)

const (
	InputPortMain  = "main"
	OutputPortMain = "main"
)

// FilterNode keeps the rows of its input table that satisfy a single
// column comparison.
type FilterNode struct {
	id       string
	column   string
	operator string
	value    string
}

// NewFilterNode creates a filter from its configuration map.
func NewFilterNode(id string, config map[string]any) (*FilterNode, error) {
	column, _ := config["column"].(string)
	operator, _ := config["operator"].(string)

	if operator == "" {
		operator = "eq"
	}

	value := ""
	if raw, ok := config["value"]; ok {
		value = fmt.Sprintf("%v", raw)
	}

	return &FilterNode{
		id:       id,
		column:   column,
		operator: operator,
		value:    value,
	}, nil
}

// Process reads the upstream table, applies the comparison row by row and
// publishes the surviving rows under the input's schema.
func (n *FilterNode) Process(ctx context.Context, node *engine.Node, sample bool) (models.Status, error) {
	in, err := node.Input(InputPortMain)
	if err != nil {
		return models.StatusError, err
	}

	out, err := node.Output(OutputPortMain)
	if err != nil {
		return models.StatusError, err
	}

	if n.column == "" {
		return models.StatusError, errors.New("filter requires a 'column'")
	}

	upstream, err := in.GetData()
	if err != nil {
		return models.StatusError, err
	}

	rows, ok := upstream.Rows()
	if !ok {
		return models.StatusError, fmt.Errorf("input of node %s is not tabular", n.id)
	}

	kept := make([]map[string]any, 0, len(rows))

	for _, row := range rows {
		match, err := n.matches(row)
		if err != nil {
			return models.StatusError, err
		}

		if match {
			kept = append(kept, row)
		}
	}

	data := &models.NodeData{
		Type:   upstream.Type,
		Name:   upstream.Name,
		Schema: upstream.Schema,
	}

	if sample {
		data.DataExample = kept
	} else {
		data.Data = kept
	}

	return models.StatusValid, out.SetData(data, node)
}

func (n *FilterNode) matches(row map[string]any) (bool, error) {
	raw, ok := row[n.column]
	if !ok {
		return false, nil
	}

	cell := fmt.Sprintf("%v", raw)

	switch n.operator {
	case "eq":
		return cell == n.value, nil
	case "neq":
		return cell != n.value, nil
	case "contains":
		return strings.Contains(cell, n.value), nil
	case "gt", "gte", "lt", "lte":
		return compareNumeric(n.operator, cell, n.value)
	default:
		return false, fmt.Errorf("unknown filter operator %q", n.operator)
	}
}

func compareNumeric(operator, cell, value string) (bool, error) {
	left, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return false, nil
	}

	right, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return false, fmt.Errorf("filter value %q is not numeric", value)
	}

	switch operator {
	case "gt":
		return left > right, nil
	case "gte":
		return left >= right, nil
	case "lt":
		return left < right, nil
	default:
		return left <= right, nil
	}
}
