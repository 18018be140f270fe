// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"context"
	"log/slog"

	"github.com/dataloom/dataloom/pkg/registry"
)

// NewRegistry builds the node type catalog: built-in factories plus any
// factories exported by shared-object plugins under pluginsPath.
func NewRegistry(ctx context.Context, logger *slog.Logger, pluginsPath string) *registry.Registry {
	reg := registry.NewRegistry(logger)
	reg.RegisterDefaultNodes()

	if pluginsPath != "" {
		if err := reg.ScanPlugins(pluginsPath); err != nil {
			logger.WarnContext(ctx, "Failed to load node plugins", "path", pluginsPath, "error", err)
		}
	}

	return reg
}
