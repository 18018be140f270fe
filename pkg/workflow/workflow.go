// Package workflow turns a declarative project schema into a live node graph
// and drives its execution in dependency order.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/eventbus"
	"github.com/dataloom/dataloom/pkg/events"
	"github.com/dataloom/dataloom/pkg/execution"
	"github.com/dataloom/dataloom/pkg/models"
	"github.com/dataloom/dataloom/pkg/otelhelper"
	"github.com/dataloom/dataloom/pkg/registry"
)

const tracerName = "github.com/dataloom/dataloom/pkg/workflow"

// Workflow owns the live node graph for one project. A workflow is created
// per execution request, not kept as a long-lived singleton; export writes
// node state back into the schema for external persistence.
type Workflow struct {
	logger   *slog.Logger
	registry *registry.Registry
	bus      eventbus.EventPublisher
	pool     *engine.Pool
	tracer   trace.Tracer

	project    *models.Project
	oldProject *models.Project
	nodes      map[string]*engine.Node
	revision   string
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger sets the workflow logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workflow) {
		w.logger = logger
	}
}

// WithEventBus sets the publisher lifecycle events are emitted on. Execution
// never depends on the bus; publish failures are logged and ignored.
func WithEventBus(bus eventbus.EventPublisher) Option {
	return func(w *Workflow) {
		w.bus = bus
	}
}

// WithPool sets the worker pool blocking node processors run on.
func WithPool(pool *engine.Pool) Option {
	return func(w *Workflow) {
		w.pool = pool
	}
}

// New creates a workflow bound to a registry.
func New(reg *registry.Registry, opts ...Option) *Workflow {
	w := &Workflow{
		logger:   slog.Default(),
		registry: reg,
		tracer:   otel.Tracer(tracerName),
		nodes:    make(map[string]*engine.Node),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Nodes returns the live node graph keyed by node ID.
func (w *Workflow) Nodes() map[string]*engine.Node {
	return w.nodes
}

// Node returns one live node by ID.
func (w *Workflow) Node(id string) (*engine.Node, bool) {
	n, ok := w.nodes[id]

	return n, ok
}

// Project returns the currently accepted project schema.
func (w *Workflow) Project() *models.Project {
	return w.project
}

// OldProject returns the previous accepted schema, the one-level undo buffer
// filled by an export with save.
func (w *Workflow) OldProject() *models.Project {
	return w.oldProject
}

// ImportProject resets the node graph and rebuilds it from the project
// schema. Import is partial-failure tolerant: a node whose type is unknown or
// whose construction fails is logged and skipped, as is a connection
// referencing an unknown node or port; the rest of the graph is still wired.
func (w *Workflow) ImportProject(ctx context.Context, project *models.Project) {
	w.project = project
	w.revision = project.Revision
	w.nodes = make(map[string]*engine.Node)

	for _, def := range project.Schema.Nodes {
		node, err := w.registry.Create(ctx, def,
			engine.WithPool(w.pool),
			engine.WithLogger(w.logger),
		)
		if err != nil {
			w.logger.WarnContext(ctx, "Skipping node",
				"project_id", project.ID, "node_id", def.ID, "node_type", def.Type, "error", err)

			continue
		}

		for name, pd := range def.Inputs {
			node.AddInput(name, pd.ID)
		}

		for name, pd := range def.Outputs {
			node.AddOutput(name, pd.ID)
		}

		w.nodes[def.ID] = node
	}

	for _, cd := range project.Schema.Connections {
		source, ok := w.nodes[cd.SourceNode]
		if !ok {
			w.logger.WarnContext(ctx, "Skipping connection: unknown source node",
				"connection_id", cd.ID, "source_node", cd.SourceNode)

			continue
		}

		target, ok := w.nodes[cd.TargetNode]
		if !ok {
			w.logger.WarnContext(ctx, "Skipping connection: unknown target node",
				"connection_id", cd.ID, "target_node", cd.TargetNode)

			continue
		}

		if _, err := engine.Connect(cd.ID, source, cd.SourcePort, target, cd.TargetPort); err != nil {
			w.logger.WarnContext(ctx, "Skipping connection",
				"connection_id", cd.ID, "error", err)
		}
	}
}

// ExecuteWorkflow runs the graph. With a node ID it executes that single node,
// transitively pulling in its upstream dependencies; without one it iterates
// every node that is not already valid. Per-node status is the source of
// truth: an individual node's failure never surfaces as a returned error.
func (w *Workflow) ExecuteWorkflow(ctx context.Context, nodeID string, sample bool) error {
	executionID := "exec-" + uuid.New().String()[:8]
	started := time.Now().UTC()

	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.execute",
		attribute.String(otelhelper.ProjectIDKey, w.projectID()),
		attribute.String(otelhelper.ExecutionIDKey, executionID),
		attribute.Bool(otelhelper.SampleKey, sample),
	)
	defer span.End()

	w.publish(ctx, events.WorkflowExecutionStarted{
		BaseEvent:   w.baseEvent(events.WorkflowExecutionStartedEvent),
		ExecutionID: executionID,
		TargetNode:  nodeID,
		Sample:      sample,
	})

	defer func() {
		w.publish(ctx, events.WorkflowExecutionFinished{
			BaseEvent:   w.baseEvent(events.WorkflowExecutionFinishedEvent),
			ExecutionID: executionID,
			Duration:    time.Since(started),
		})
	}()

	if nodeID != "" {
		node, ok := w.nodes[nodeID]
		if !ok {
			return fmt.Errorf("node %s not found in workflow", nodeID)
		}

		w.executeNode(ctx, executionID, node, sample)

		return nil
	}

	for _, node := range w.nodes {
		if node.Status == models.StatusValid {
			continue
		}

		w.executeNode(ctx, executionID, node, sample)
	}

	return nil
}

func (w *Workflow) executeNode(ctx context.Context, executionID string, node *engine.Node, sample bool) {
	started := time.Now().UTC()

	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "node.execute",
		attribute.String(otelhelper.NodeIDKey, node.ID),
		attribute.String(otelhelper.NodeTypeKey, node.Type),
	)
	defer span.End()

	w.publish(ctx, events.NodeExecutionStarted{
		BaseEvent:   w.baseEvent(events.NodeExecutionStartedEvent),
		ExecutionID: executionID,
		NodeID:      node.ID,
		NodeType:    node.Type,
	})

	status := node.Execute(ctx, sample)

	span.SetAttributes(attribute.String(otelhelper.NodeStatusKey, string(status)))

	if status == models.StatusError {
		otelhelper.SetError(span, errors.New(node.StatusMessage),
			attribute.String(otelhelper.NodeIDKey, node.ID))
	}

	w.publish(ctx, events.NodeExecutionFinished{
		BaseEvent:     w.baseEvent(events.NodeExecutionFinishedEvent),
		ExecutionID:   executionID,
		NodeID:        node.ID,
		NodeType:      node.Type,
		Status:        status,
		StatusMessage: node.StatusMessage,
		Duration:      time.Since(started),
	})
}

// ExportUpdatedProject deep-copies the accepted schema and writes each live
// node's status, message, stack trace, and produced output data into the
// copy. The live node graph is left untouched. With save, the previous
// project becomes the one-level undo buffer and the copy is accepted as
// current.
func (w *Workflow) ExportUpdatedProject(save bool) *models.Project {
	out := w.project.Clone()

	for i := range out.Schema.Nodes {
		def := &out.Schema.Nodes[i]

		node, ok := w.nodes[def.ID]
		if !ok {
			continue
		}

		if def.Data == nil {
			def.Data = make(map[string]any)
		}

		def.Data["status"] = string(node.Status)
		def.Data["statusMessage"] = node.StatusMessage
		def.Data["errorStacktrace"] = node.ErrorStackTrace

		dataOutput := make(map[string]any)

		for name, out := range node.Outputs {
			if out.HasData() {
				dataOutput[name] = out.GetData()
			}
		}

		if len(dataOutput) > 0 {
			def.Data["dataOutput"] = dataOutput
		}
	}

	if save {
		w.oldProject = w.project
		w.project = out
	}

	return out
}

// ImportAndExecute is the orchestrating entry point for one execution
// request: it binds the execution scope, imports the project, runs the graph,
// and exports the updated schema. The scope is always cleared before
// returning so a later execution on the same worker cannot observe stale
// identity.
func (w *Workflow) ImportAndExecute(ctx context.Context, project *models.Project, nodeID string, sample bool, user *models.User) (*models.Project, error) {
	scope := execution.NewScope()
	scope.SetUser(user)
	scope.SetWorkflow(&execution.WorkflowInfo{ID: project.ID, Name: project.Name})

	defer scope.Clear()

	ctx = execution.WithScope(ctx, scope)

	w.ImportProject(ctx, project)

	if err := w.ExecuteWorkflow(ctx, nodeID, sample); err != nil {
		return nil, err
	}

	return w.ExportUpdatedProject(true), nil
}

func (w *Workflow) projectID() string {
	if w.project == nil {
		return ""
	}

	return w.project.ID
}

func (w *Workflow) baseEvent(eventType events.EventType) events.BaseEvent {
	return events.BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		ProjectID: w.projectID(),
	}
}

func (w *Workflow) publish(ctx context.Context, event eventbus.Event) {
	if w.bus == nil {
		return
	}

	if err := w.bus.Publish(ctx, w.projectID(), event); err != nil {
		w.logger.WarnContext(ctx, "Failed to publish event",
			"event_type", string(event.GetType()), "error", err)
	}
}
