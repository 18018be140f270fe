package redissink

import (
	"context"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/protocol"
)

// RedisSinkNodeFactory creates RedisSinkNode instances.
type RedisSinkNodeFactory struct{}

// NewRedisSinkNodeFactory creates a new factory instance.
func NewRedisSinkNodeFactory() protocol.NodeFactory {
	return &RedisSinkNodeFactory{}
}

func (f *RedisSinkNodeFactory) Create(ctx context.Context, id string, config map[string]any) (engine.Processor, error) {
	return NewRedisSinkNode(id, config)
}

func (f *RedisSinkNodeFactory) ID() string {
	return "redis-sink"
}

func (f *RedisSinkNodeFactory) Name() string {
	return "Redis Sink"
}

func (f *RedisSinkNodeFactory) Description() string {
	return "Stores table rows in Redis as JSON values"
}

func (f *RedisSinkNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"addr": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "host:port of the Redis server",
			},
			"password": map[string]any{
				"type": "string",
			},
			"db": map[string]any{
				"type": "number",
			},
			"keyColumn": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Column whose value becomes the key",
			},
			"keyPrefix": map[string]any{
				"type":        "string",
				"description": "Prefix prepended to every key",
			},
			"ttlSeconds": map[string]any{
				"type":        "number",
				"description": "Expiry in seconds, 0 keeps keys forever",
			},
		},
		"required": []string{"addr", "keyColumn"},
	}
}
