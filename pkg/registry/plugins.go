package registry

import (
	"fmt"
	"io/fs"
	"os"
	"plugin"
	"sync"

	"github.com/dataloom/dataloom/pkg/protocol"
)

// pluginSymbol is the exported symbol a node plugin must provide; it must be
// assignable to protocol.NodeFactory.
const pluginSymbol = "Node"

var scanOnce sync.Once

// ScanPlugins walks pluginsPath once, loading every shared-object plugin
// found and registering the factory it exports. A second call is a no-op:
// the catalog is process-wide state populated exactly once, before any
// concurrent Create calls.
func (r *Registry) ScanPlugins(pluginsPath string) error {
	var err error

	scanOnce.Do(func() {
		err = r.loadPlugins(pluginsPath)
	})

	return err
}

func (r *Registry) loadPlugins(pluginsPath string) error {
	root := os.DirFS(pluginsPath)

	paths, err := fs.Glob(root, "**/*.so")
	if err != nil {
		return fmt.Errorf("failed to scan plugin directory %s: %w", pluginsPath, err)
	}

	l := r.logger.With("path", pluginsPath)
	l.Info("Loading node plugins", "count", len(paths))

	for _, p := range paths {
		plg, err := plugin.Open(pluginsPath + "/" + p)
		if err != nil {
			return fmt.Errorf("failed to open plugin %s: %w", p, err)
		}

		sym, err := plg.Lookup(pluginSymbol)
		if err != nil {
			return fmt.Errorf("plugin %s does not export %q: %w", p, pluginSymbol, err)
		}

		factory, ok := sym.(protocol.NodeFactory)
		if !ok {
			return fmt.Errorf("plugin %s symbol %q is not a NodeFactory", p, pluginSymbol)
		}

		r.RegisterNode(factory)
		l.Info("Loaded node plugin", "plugin", p, "type", factory.ID())
	}

	return nil
}
