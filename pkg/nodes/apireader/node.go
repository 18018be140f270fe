// Package apireader provides the HTTP API source node.
package apireader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/execution"
	"github.com/dataloom/dataloom/pkg/models"
)

const OutputPortMain = "main"

const defaultSampleRows = 10

// APIReaderNode fetches a JSON document from an HTTP endpoint and publishes
// it as a tabular envelope when the payload is an array of objects.
type APIReaderNode struct {
	id         string
	url        string
	headers    map[string]string
	sampleRows int
	client     *http.Client
}

// NewAPIReaderNode creates an API reader from its configuration map.
func NewAPIReaderNode(id string, config map[string]any) (*APIReaderNode, error) {
	url, _ := config["url"].(string)

	headers := make(map[string]string)
	if raw, ok := config["headers"].(map[string]any); ok {
		for k, v := range raw {
			if s, ok := v.(string); ok {
				headers[k] = s
			}
		}
	}

	sampleRows := defaultSampleRows
	if raw, ok := config["sampleRows"].(float64); ok && raw > 0 {
		sampleRows = int(raw)
	}

	return &APIReaderNode{
		id:         id,
		url:        url,
		headers:    headers,
		sampleRows: sampleRows,
		client:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Blocking marks the network fetch for worker-pool dispatch.
func (n *APIReaderNode) Blocking() bool {
	return true
}

// Process fetches the endpoint and publishes the decoded payload. The acting
// user from the execution scope is forwarded for upstream auditing.
func (n *APIReaderNode) Process(ctx context.Context, node *engine.Node, sample bool) (models.Status, error) {
	out, err := node.Output(OutputPortMain)
	if err != nil {
		return models.StatusError, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.url, nil)
	if err != nil {
		return models.StatusError, fmt.Errorf("failed to build request: %w", err)
	}

	for k, v := range n.headers {
		req.Header.Set(k, v)
	}

	if user := execution.FromContext(ctx).User(); user != nil {
		req.Header.Set("X-Acting-User", user.ID)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return models.StatusError, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.StatusError, fmt.Errorf("unexpected response status %d from %s", resp.StatusCode, n.url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.StatusError, fmt.Errorf("failed to read response: %w", err)
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.StatusError, fmt.Errorf("failed to decode response: %w", err)
	}

	rows := toRows(payload)
	if sample && len(rows) > n.sampleRows {
		rows = rows[:n.sampleRows]
	}

	data := &models.NodeData{
		Type:   models.DataTypeAPI,
		Name:   n.url,
		Schema: schemaOf(rows),
	}

	if sample {
		data.DataExample = rows
	} else {
		data.Data = rows
	}

	return models.StatusValid, out.SetData(data, node)
}

func toRows(payload any) []map[string]any {
	items, ok := payload.([]any)
	if !ok {
		if obj, ok := payload.(map[string]any); ok {
			return []map[string]any{obj}
		}

		return []map[string]any{{"value": payload}}
	}

	rows := make([]map[string]any, 0, len(items))

	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			rows = append(rows, obj)
		} else {
			rows = append(rows, map[string]any{"value": item})
		}
	}

	return rows
}

func schemaOf(rows []map[string]any) map[string]any {
	if len(rows) == 0 {
		return map[string]any{"fields": []string{}}
	}

	fields := make([]string, 0, len(rows[0]))
	for field := range rows[0] {
		fields = append(fields, field)
	}

	return map[string]any{"fields": fields}
}
