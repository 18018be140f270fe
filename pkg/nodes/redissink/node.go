// Package redissink provides the Redis key-value sink node.
package redissink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/models"
)

const (
	InputPortMain  = "main"
	OutputPortMain = "main"
)

// RedisSinkNode writes each row of its input table to Redis as a JSON
// value keyed by a configured column.
type RedisSinkNode struct {
	id        string
	addr      string
	password  string
	db        int
	keyColumn string
	keyPrefix string
	ttl       time.Duration
}

// NewRedisSinkNode creates a Redis sink from its configuration map.
func NewRedisSinkNode(id string, config map[string]any) (*RedisSinkNode, error) {
	addr, _ := config["addr"].(string)
	password, _ := config["password"].(string)
	keyColumn, _ := config["keyColumn"].(string)
	keyPrefix, _ := config["keyPrefix"].(string)

	db := 0
	if raw, ok := config["db"].(float64); ok {
		db = int(raw)
	}

	var ttl time.Duration
	if raw, ok := config["ttlSeconds"].(float64); ok && raw > 0 {
		ttl = time.Duration(raw) * time.Second
	}

	return &RedisSinkNode{
		id:        id,
		addr:      addr,
		password:  password,
		db:        db,
		keyColumn: keyColumn,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}, nil
}

// Blocking marks the network write for worker-pool dispatch.
func (n *RedisSinkNode) Blocking() bool {
	return true
}

// Process stores every upstream row and republishes the table. Sample runs
// skip the write and only forward the preview.
func (n *RedisSinkNode) Process(ctx context.Context, node *engine.Node, sample bool) (models.Status, error) {
	in, err := node.Input(InputPortMain)
	if err != nil {
		return models.StatusError, err
	}

	out, err := node.Output(OutputPortMain)
	if err != nil {
		return models.StatusError, err
	}

	if n.addr == "" || n.keyColumn == "" {
		return models.StatusError, errors.New("redis sink requires both 'addr' and 'keyColumn'")
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
		if err := n.store(ctx, rows); err != nil {
			return models.StatusError, err
		}
	}

	data := &models.NodeData{
		Type:   upstream.Type,
		Name:   upstream.Name,
		Schema: upstream.Schema,
	}

	if sample {
		data.DataExample = rows
	} else {
		data.Data = rows
	}

	return models.StatusValid, out.SetData(data, node)
}

func (n *RedisSinkNode) store(ctx context.Context, rows []map[string]any) error {
	client := redis.NewClient(&redis.Options{
		Addr:     n.addr,
		Password: n.password,
		DB:       n.db,
	})
	defer client.Close()

	for _, row := range rows {
		raw, ok := row[n.keyColumn]
		if !ok || raw == nil {
			return fmt.Errorf("row is missing key column %q", n.keyColumn)
		}

		key := n.keyPrefix + fmt.Sprintf("%v", raw)

		value, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to encode row for key %s: %w", key, err)
		}

		if err := client.Set(ctx, key, value, n.ttl).Err(); err != nil {
			return fmt.Errorf("failed to store key %s: %w", key, err)
		}
	}

	return nil
}
