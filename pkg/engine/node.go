package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/dataloom/dataloom/pkg/models"
)

// Processor is the single operation a concrete node implementation provides.
// It reads configuration from the node's Data map, pulls upstream values via
// node.Inputs[name].GetData(), and publishes results via
// node.Outputs[name].SetData(value, node). A sample run materializes only the
// bounded preview payload.
type Processor interface {
	Process(ctx context.Context, node *Node, sample bool) (models.Status, error)
}

// Blocker is implemented by processors that are inherently blocking (file
// scans, database reads). The executor dispatches them onto the worker pool;
// everything else is run in place. The decision is made once per invocation
// from this declaration, never hand-written per node.
type Blocker interface {
	Blocking() bool
}

// Node is one executable unit in the graph: identity, configuration, ports,
// status, and the shared execution protocol.
type Node struct {
	ID              string
	Type            string
	Revision        string
	Data            map[string]any
	Status          models.Status
	StatusMessage   string
	ErrorStackTrace []string

	Inputs  map[string]*InputPort
	Outputs map[string]*OutputPort

	proc   Processor
	pool   *Pool
	logger *slog.Logger
}

// Option configures a Node at construction time.
type Option func(*Node)

// WithPool sets the worker pool blocking processors are dispatched onto.
func WithPool(pool *Pool) Option {
	return func(n *Node) {
		n.pool = pool
	}
}

// WithLogger sets the node's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Node) {
		n.logger = logger
	}
}

// NewNode builds a live node around a processor. Ports are attached
// afterwards by the importing workflow, not by the node or the processor.
func NewNode(id, nodeType, revision string, data map[string]any, status models.Status, proc Processor, opts ...Option) *Node {
	if data == nil {
		data = make(map[string]any)
	}

	if !status.Known() {
		status = models.StatusComplete
	}

	n := &Node{
		ID:       id,
		Type:     nodeType,
		Revision: revision,
		Data:     data,
		Status:   status,
		Inputs:   make(map[string]*InputPort),
		Outputs:  make(map[string]*OutputPort),
		proc:     proc,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// AddInput attaches a fresh input port under the given name.
func (n *Node) AddInput(name, id string) *InputPort {
	p := &InputPort{ID: id, Name: name, node: n}
	n.Inputs[name] = p

	return p
}

// AddOutput attaches a fresh output port under the given name.
func (n *Node) AddOutput(name, id string) *OutputPort {
	p := &OutputPort{ID: id, Name: name, node: n}
	n.Outputs[name] = p

	return p
}

// Input returns the named input port or ErrUnknownPort when the importing
// workflow never attached it.
func (n *Node) Input(name string) (*InputPort, error) {
	p, ok := n.Inputs[name]
	if !ok {
		return nil, fmt.Errorf("%w: node %s has no input %q", ErrUnknownPort, n.ID, name)
	}

	return p, nil
}

// Output returns the named output port or ErrUnknownPort when the importing
// workflow never attached it.
func (n *Node) Output(name string) (*OutputPort, error) {
	p, ok := n.Outputs[name]
	if !ok {
		return nil, fmt.Errorf("%w: node %s has no output %q", ErrUnknownPort, n.ID, name)
	}

	return p, nil
}

// Execute runs the node after pulling its upstream dependencies, depth-first
// and strictly sequential. An upstream node in valid status with a populated
// output counts as a cache hit; a valid node whose output was never populated
// is re-executed rather than treated as satisfied, so a node claiming success
// without data behaves as a transparent retry. Failures never propagate as
// returned errors: they land in the node's status, message, and stack trace.
func (n *Node) Execute(ctx context.Context, sample bool) models.Status {
	if !n.Status.Runnable() {
		if n.Status == models.StatusIncomplete {
			n.fail(msgIncompleteParameters, nil)
		}

		// Error and any other terminal status is returned unchanged;
		// execution is never retried automatically.
		return n.Status
	}

	for name, in := range n.Inputs {
		if in.Connection() == nil {
			continue
		}

		parent := in.ConnectedNode()

		switch parent.Status {
		case models.StatusValid:
			if in.HasData() {
				continue
			}

			// Valid but empty output: resumable gap, re-enter the parent.
			if st := parent.Execute(ctx, sample); st != models.StatusValid {
				n.fail(msgParentError, nil)

				return n.Status
			}

		case models.StatusComplete:
			if st := parent.Execute(ctx, sample); st != models.StatusValid {
				n.fail(msgParentError, nil)

				return n.Status
			}

		case models.StatusIncomplete:
			n.fail(msgParentIncomplete, nil)

			return n.Status

		case models.StatusError:
			n.fail(msgParentError, nil)

			return n.Status

		default:
			n.logger.Warn("Unknown upstream status",
				"node_id", n.ID, "input", name, "parent_id", parent.ID, "parent_status", string(parent.Status))
			n.fail(msgParentUnknownStatus, nil)

			return n.Status
		}
	}

	status, frames, err := n.runProcess(ctx, sample)
	if err != nil {
		n.fail(err.Error(), frames)

		return n.Status
	}

	n.Status = status
	n.StatusMessage = ""
	n.ErrorStackTrace = nil

	return n.Status
}

// runProcess invokes the processor with panic containment, dispatching onto
// the worker pool when the implementation declares itself blocking.
func (n *Node) runProcess(ctx context.Context, sample bool) (models.Status, []string, error) {
	var (
		status models.Status
		frames []string
		err    error
	)

	run := func() {
		defer func() {
			if r := recover(); r != nil {
				frames = stackFrames(debug.Stack())
				err = fmt.Errorf("process panic: %v", r)
				status = models.StatusError
			}
		}()

		status, err = n.proc.Process(ctx, n, sample)
		if err != nil {
			frames = stackFrames(debug.Stack())
		}
	}

	if b, ok := n.proc.(Blocker); ok && b.Blocking() && n.pool != nil {
		if perr := n.pool.Do(ctx, run); perr != nil {
			return models.StatusError, nil, perr
		}
	} else {
		run()
	}

	return status, frames, err
}

func (n *Node) fail(message string, frames []string) {
	n.Status = models.StatusError
	n.StatusMessage = message
	n.ErrorStackTrace = frames

	n.logger.Error("Node execution failed",
		"node_id", n.ID, "node_type", n.Type, "message", message)
}

func stackFrames(stack []byte) []string {
	lines := strings.Split(strings.TrimSpace(string(stack)), "\n")
	frames := make([]string, 0, len(lines))

	for _, line := range lines {
		frames = append(frames, strings.TrimSpace(line))
	}

	return frames
}
