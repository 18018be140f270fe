// Package registry maps node type names to constructible node
// implementations. The catalog is built explicitly at process startup and is
// read-only afterwards, so concurrent imports can look types up without
// coordination.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/models"
	"github.com/dataloom/dataloom/pkg/protocol"
)

type Registry struct {
	logger    *slog.Logger
	factories map[string]protocol.NodeFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		logger:    logger,
		factories: make(map[string]protocol.NodeFactory),
	}
}

// RegisterNode adds a factory under its type name, replacing any previous
// registration for that name.
func (r *Registry) RegisterNode(factory protocol.NodeFactory) {
	r.factories[factory.ID()] = factory
}

// KnownTypes returns the registered type names, sorted for stable diagnostics.
func (r *Registry) KnownTypes() []string {
	types := make([]string, 0, len(r.factories))
	for id := range r.factories {
		types = append(types, id)
	}

	sort.Strings(types)

	return types
}

// Factory returns the factory registered for a type name.
func (r *Registry) Factory(nodeType string) (protocol.NodeFactory, bool) {
	factory, ok := r.factories[nodeType]

	return factory, ok
}

// Create constructs a live node from a schema descriptor. An unknown type
// name fails listing the known types. A descriptor whose configuration does
// not satisfy the factory's schema is constructed in incomplete status rather
// than rejected; it will resolve to an error if executed. Construction
// failures from the factory propagate unmodified.
func (r *Registry) Create(ctx context.Context, def models.NodeDescriptor, opts ...engine.Option) (*engine.Node, error) {
	factory, ok := r.factories[def.Type]
	if !ok {
		return nil, fmt.Errorf("unknown node type %q (known types: %s)",
			def.Type, strings.Join(r.KnownTypes(), ", "))
	}

	proc, err := factory.Create(ctx, def.ID, def.Data)
	if err != nil {
		return nil, err
	}

	status := def.Status()
	if status == models.StatusComplete && !r.configSatisfies(factory, def.Data) {
		status = models.StatusIncomplete
	}

	return engine.NewNode(def.ID, def.Type, def.Revision, def.Data, status, proc, opts...), nil
}

// configSatisfies validates the descriptor configuration against the
// factory's declared JSON schema. A factory without a schema accepts any
// configuration.
func (r *Registry) configSatisfies(factory protocol.NodeFactory, config map[string]any) bool {
	schema := factory.Schema()
	if len(schema) == 0 {
		return true
	}

	if config == nil {
		config = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(config),
	)
	if err != nil {
		r.logger.Warn("Config schema validation failed", "node_type", factory.ID(), "error", err)

		return false
	}

	return result.Valid()
}
