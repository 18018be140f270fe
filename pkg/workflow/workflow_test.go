package workflow

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/eventbus"
	"github.com/dataloom/dataloom/pkg/events"
	"github.com/dataloom/dataloom/pkg/execution"
	"github.com/dataloom/dataloom/pkg/models"
	"github.com/dataloom/dataloom/pkg/registry"
	"github.com/dataloom/dataloom/pkg/testutil"
)

// passProcessor publishes one row on "main"; failProcessor always errors.
type passProcessor struct {
	seenUser string
}

func (p *passProcessor) Process(ctx context.Context, node *engine.Node, sample bool) (models.Status, error) {
	if user := execution.FromContext(ctx).User(); user != nil {
		p.seenUser = user.ID
	}

	out, err := node.Output("main")
	if err != nil {
		return models.StatusError, err
	}

	rows := []map[string]any{{"node": node.ID}}

	return models.StatusValid, out.SetData(models.NewTabular(node.ID, nil, rows, sample), node)
}

type failProcessor struct{}

func (p *failProcessor) Process(_ context.Context, _ *engine.Node, _ bool) (models.Status, error) {
	return models.StatusError, errors.New("source exploded")
}

type stubFactory struct {
	id   string
	proc engine.Processor
}

func (f *stubFactory) Create(_ context.Context, _ string, _ map[string]any) (engine.Processor, error) {
	return f.proc, nil
}

func (f *stubFactory) ID() string             { return f.id }
func (f *stubFactory) Name() string           { return f.id }
func (f *stubFactory) Description() string    { return "stub" }
func (f *stubFactory) Schema() map[string]any { return nil }

// recordingBus collects published events in order.
type recordingBus struct {
	published []eventbus.Event
}

func (b *recordingBus) Publish(_ context.Context, _ string, event eventbus.Event) error {
	b.published = append(b.published, event)

	return nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func newTestRegistry(procs map[string]engine.Processor) *registry.Registry {
	reg := registry.NewRegistry(newTestLogger())
	for id, proc := range procs {
		reg.RegisterNode(&stubFactory{id: id, proc: proc})
	}

	return reg
}

func twoNodeProject() *models.Project {
	source := testutil.CreateTestNodeDescriptor(
		testutil.WithNodeID("a"),
		testutil.WithNodeType("pass"),
		testutil.WithNodeData(map[string]any{}),
		testutil.WithInputPorts(),
		testutil.WithOutputPorts("main"),
	)
	sink := testutil.CreateTestNodeDescriptor(
		testutil.WithNodeID("b"),
		testutil.WithNodeType("pass"),
		testutil.WithNodeData(map[string]any{}),
		testutil.WithInputPorts("main"),
		testutil.WithOutputPorts("main"),
	)

	return testutil.CreateTestProject(
		testutil.WithNodes(source, sink),
		testutil.WithConnections(testutil.CreateTestConnection("a", "main", "b", "main")),
	)
}

func TestWorkflow_ImportProject(t *testing.T) {
	reg := newTestRegistry(map[string]engine.Processor{"pass": &passProcessor{}})
	wf := New(reg, WithLogger(newTestLogger()))

	wf.ImportProject(context.Background(), twoNodeProject())

	require.Len(t, wf.Nodes(), 2)

	sink, ok := wf.Node("b")
	require.True(t, ok)
	require.NotNil(t, sink.Inputs["main"].Connection())
	assert.Equal(t, "a", sink.Inputs["main"].ConnectedNode().ID)
}

func TestWorkflow_ImportProjectSkipsBrokenPieces(t *testing.T) {
	reg := newTestRegistry(map[string]engine.Processor{"pass": &passProcessor{}})
	wf := New(reg, WithLogger(newTestLogger()))

	known := testutil.CreateTestNodeDescriptor(
		testutil.WithNodeID("a"),
		testutil.WithNodeType("pass"),
		testutil.WithOutputPorts("main"),
	)
	unknown := testutil.CreateTestNodeDescriptor(
		testutil.WithNodeID("x"),
		testutil.WithNodeType("no-such-type"),
	)

	project := testutil.CreateTestProject(
		testutil.WithNodes(known, unknown),
		testutil.WithConnections(
			testutil.CreateTestConnection("a", "main", "x", "main"),
			testutil.CreateTestConnection("ghost", "main", "a", "main"),
		),
	)

	wf.ImportProject(context.Background(), project)

	assert.Len(t, wf.Nodes(), 1)

	_, ok := wf.Node("a")
	assert.True(t, ok)
}

func TestWorkflow_ExecuteEndToEnd(t *testing.T) {
	reg := newTestRegistry(map[string]engine.Processor{"pass": &passProcessor{}})
	wf := New(reg, WithLogger(newTestLogger()))

	wf.ImportProject(context.Background(), twoNodeProject())
	require.NoError(t, wf.ExecuteWorkflow(context.Background(), "", false))

	for _, id := range []string{"a", "b"} {
		node, ok := wf.Node(id)
		require.True(t, ok)
		assert.Equal(t, models.StatusValid, node.Status)
		assert.True(t, node.Outputs["main"].HasData())
	}
}

func TestWorkflow_ExecuteSingleNodePullsDependencies(t *testing.T) {
	reg := newTestRegistry(map[string]engine.Processor{"pass": &passProcessor{}})
	wf := New(reg, WithLogger(newTestLogger()))

	wf.ImportProject(context.Background(), twoNodeProject())
	require.NoError(t, wf.ExecuteWorkflow(context.Background(), "b", false))

	source, _ := wf.Node("a")
	assert.Equal(t, models.StatusValid, source.Status)
}

func TestWorkflow_ExecuteUnknownNode(t *testing.T) {
	reg := newTestRegistry(map[string]engine.Processor{"pass": &passProcessor{}})
	wf := New(reg, WithLogger(newTestLogger()))

	wf.ImportProject(context.Background(), twoNodeProject())

	err := wf.ExecuteWorkflow(context.Background(), "nope", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node nope not found in workflow")
}

func TestWorkflow_UpstreamFailurePropagates(t *testing.T) {
	reg := newTestRegistry(map[string]engine.Processor{"pass": &passProcessor{}})
	reg.RegisterNode(&stubFactory{id: "fail", proc: &failProcessor{}})

	project := twoNodeProject()
	project.Schema.Nodes[0].Type = "fail"

	wf := New(reg, WithLogger(newTestLogger()))
	wf.ImportProject(context.Background(), project)
	require.NoError(t, wf.ExecuteWorkflow(context.Background(), "b", false))

	source, _ := wf.Node("a")
	assert.Equal(t, models.StatusError, source.Status)
	assert.Equal(t, "source exploded", source.StatusMessage)
	assert.NotEmpty(t, source.ErrorStackTrace)

	sink, _ := wf.Node("b")
	assert.Equal(t, models.StatusError, sink.Status)
	assert.Equal(t, "a parent node has an error status", sink.StatusMessage)
	assert.False(t, sink.Outputs["main"].HasData())
}

func TestWorkflow_ExecuteSkipsValidNodes(t *testing.T) {
	reg := newTestRegistry(map[string]engine.Processor{"pass": &passProcessor{}})
	wf := New(reg, WithLogger(newTestLogger()))

	project := twoNodeProject()
	wf.ImportProject(context.Background(), project)
	require.NoError(t, wf.ExecuteWorkflow(context.Background(), "", false))

	// Drop outputs but keep statuses: a full re-run must not touch valid nodes.
	bus := &recordingBus{}
	wf.bus = bus

	require.NoError(t, wf.ExecuteWorkflow(context.Background(), "", false))

	for _, event := range bus.published {
		_, isNodeStart := event.(events.NodeExecutionStarted)
		assert.False(t, isNodeStart, "no node should execute on a second full run")
	}
}

func TestWorkflow_ExportUpdatedProject(t *testing.T) {
	reg := newTestRegistry(map[string]engine.Processor{"pass": &passProcessor{}})
	reg.RegisterNode(&stubFactory{id: "fail", proc: &failProcessor{}})

	project := twoNodeProject()
	project.Schema.Nodes[1].Type = "fail"

	wf := New(reg, WithLogger(newTestLogger()))
	wf.ImportProject(context.Background(), project)
	require.NoError(t, wf.ExecuteWorkflow(context.Background(), "", false))

	out := wf.ExportUpdatedProject(false)
	require.NotSame(t, project, out)

	var source, sink *models.NodeDescriptor

	for i := range out.Schema.Nodes {
		switch out.Schema.Nodes[i].ID {
		case "a":
			source = &out.Schema.Nodes[i]
		case "b":
			sink = &out.Schema.Nodes[i]
		}
	}

	require.NotNil(t, source)
	require.NotNil(t, sink)

	assert.Equal(t, "valid", source.Data["status"])
	assert.NotNil(t, source.Data["dataOutput"])

	assert.Equal(t, "error", sink.Data["status"])
	assert.Equal(t, "source exploded", sink.Data["statusMessage"])
	assert.Nil(t, sink.Data["dataOutput"])

	// The accepted schema must be untouched without save.
	assert.Nil(t, wf.Project().Schema.Nodes[0].Data["status"])
	assert.Nil(t, wf.OldProject())
}

func TestWorkflow_ExportWithSaveKeepsUndoBuffer(t *testing.T) {
	reg := newTestRegistry(map[string]engine.Processor{"pass": &passProcessor{}})
	wf := New(reg, WithLogger(newTestLogger()))

	project := twoNodeProject()
	wf.ImportProject(context.Background(), project)
	require.NoError(t, wf.ExecuteWorkflow(context.Background(), "", false))

	out := wf.ExportUpdatedProject(true)

	assert.Same(t, project, wf.OldProject())
	assert.Same(t, out, wf.Project())
}

func TestWorkflow_ImportAndExecuteBindsUser(t *testing.T) {
	proc := &passProcessor{}
	reg := newTestRegistry(map[string]engine.Processor{"pass": proc})
	wf := New(reg, WithLogger(newTestLogger()))

	user := testutil.CreateTestUser()

	updated, err := wf.ImportAndExecute(context.Background(), twoNodeProject(), "", false, user)
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, user.ID, proc.seenUser)
	assert.Same(t, updated, wf.Project())
}

func TestWorkflow_PublishesLifecycleEvents(t *testing.T) {
	reg := newTestRegistry(map[string]engine.Processor{"pass": &passProcessor{}})
	bus := &recordingBus{}
	wf := New(reg, WithLogger(newTestLogger()), WithEventBus(bus))

	wf.ImportProject(context.Background(), twoNodeProject())
	require.NoError(t, wf.ExecuteWorkflow(context.Background(), "", false))

	require.NotEmpty(t, bus.published)

	first, ok := bus.published[0].(events.WorkflowExecutionStarted)
	require.True(t, ok)
	assert.NotEmpty(t, first.ExecutionID)

	last, ok := bus.published[len(bus.published)-1].(events.WorkflowExecutionFinished)
	require.True(t, ok)
	assert.Equal(t, first.ExecutionID, last.ExecutionID)

	var nodeEvents int

	for _, event := range bus.published {
		if _, ok := event.(events.NodeExecutionFinished); ok {
			nodeEvents++
		}
	}

	assert.Equal(t, 2, nodeEvents)
}
