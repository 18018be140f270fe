// Package main provides the Dataloom worker, a one-shot project executor.
package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/eventbus"
	"github.com/dataloom/dataloom/pkg/events"
	"github.com/dataloom/dataloom/pkg/models"
	"github.com/dataloom/dataloom/pkg/persistence"
	"github.com/dataloom/dataloom/pkg/registry"
	"github.com/dataloom/dataloom/pkg/workflow"
)

// RunRequest carries one execution order for the runner.
type RunRequest struct {
	ProjectID string
	NodeID    string
	Sample    bool
	UserID    string
}

// Runner loads a project, executes its graph and saves the updated schema.
type Runner struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	eventBus    eventbus.EventBus
	pool        *engine.Pool
}

func NewRunner(
	logger *slog.Logger,
	store persistence.Persistence,
	reg *registry.Registry,
	eventBus eventbus.EventBus,
	pool *engine.Pool,
) *Runner {
	return &Runner{
		logger:      logger,
		persistence: store,
		registry:    reg,
		eventBus:    eventBus,
		pool:        pool,
	}
}

// Run executes the requested project and reports per-node results. Node
// failures are reflected in the saved schema, not in the returned error; the
// error is reserved for problems with the run itself.
func (r *Runner) Run(ctx context.Context, req RunRequest) error {
	r.subscribeProgress(ctx)

	project, err := r.persistence.ProjectByID(ctx, req.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to load project %s: %w", req.ProjectID, err)
	}

	var user *models.User
	if req.UserID != "" {
		user = &models.User{ID: req.UserID}
	}

	wf := workflow.New(r.registry,
		workflow.WithLogger(r.logger),
		workflow.WithEventBus(r.eventBus),
		workflow.WithPool(r.pool),
	)

	updated, err := wf.ImportAndExecute(ctx, project, req.NodeID, req.Sample, user)
	if err != nil {
		return err
	}

	if err := r.persistence.SaveProject(ctx, updated); err != nil {
		return fmt.Errorf("failed to save project %s: %w", req.ProjectID, err)
	}

	for _, node := range updated.Schema.Nodes {
		r.logger.InfoContext(ctx, "Node finished",
			"node_id", node.ID,
			"node_type", node.Type,
			"status", node.Data["status"],
			"status_message", node.Data["statusMessage"],
		)
	}

	return nil
}

// subscribeProgress logs node lifecycle events as they happen, so long runs
// show progress before the final report.
func (r *Runner) subscribeProgress(ctx context.Context) {
	r.eventBus.Handle(events.NodeExecutionFinishedEvent, func(ctx context.Context, event any) error {
		finished, ok := event.(*events.NodeExecutionFinished)
		if !ok {
			return nil
		}

		r.logger.InfoContext(ctx, "Node execution finished",
			"node_id", finished.NodeID,
			"node_type", finished.NodeType,
			"status", string(finished.Status),
			"duration", finished.Duration.String(),
		)

		return nil
	})

	if err := r.eventBus.Subscribe(ctx); err != nil {
		r.logger.WarnContext(ctx, "Failed to subscribe to events", "error", err)
	}
}
