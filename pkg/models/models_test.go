package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Runnable(t *testing.T) {
	assert.True(t, StatusComplete.Runnable())
	assert.True(t, StatusValid.Runnable())
	assert.False(t, StatusIncomplete.Runnable())
	assert.False(t, StatusError.Runnable())
	assert.False(t, Status("half-done").Runnable())
}

func TestStatus_Known(t *testing.T) {
	for _, s := range []Status{StatusIncomplete, StatusComplete, StatusValid, StatusError} {
		assert.True(t, s.Known())
	}

	assert.False(t, Status("").Known())
	assert.False(t, Status("running").Known())
}

func TestNodeData_IsEmpty(t *testing.T) {
	var nilData *NodeData

	assert.True(t, nilData.IsEmpty())
	assert.True(t, EmptyData.IsEmpty())
	assert.True(t, (&NodeData{Type: DataTypeTabular, Name: "t"}).IsEmpty())

	assert.False(t, (&NodeData{Data: []map[string]any{}}).IsEmpty())
	assert.False(t, (&NodeData{DataExample: []map[string]any{}}).IsEmpty())
}

func TestNewTabular_PopulatesExactlyOneSlot(t *testing.T) {
	rows := []map[string]any{{"id": 1}}

	full := NewTabular("t", nil, rows, false)
	assert.NotNil(t, full.Data)
	assert.Nil(t, full.DataExample)

	sample := NewTabular("t", nil, rows, true)
	assert.Nil(t, sample.Data)
	assert.NotNil(t, sample.DataExample)
}

func TestNodeData_Rows(t *testing.T) {
	rows := []map[string]any{{"id": 1}}

	got, ok := NewTabular("t", nil, rows, false).Rows()
	require.True(t, ok)
	assert.Equal(t, rows, got)

	got, ok = NewTabular("t", nil, rows, true).Rows()
	require.True(t, ok)
	assert.Equal(t, rows, got)

	_, ok = (&NodeData{Data: "not rows"}).Rows()
	assert.False(t, ok)

	_, ok = EmptyData.Rows()
	assert.False(t, ok)
}

func TestNodeDescriptor_Status(t *testing.T) {
	assert.Equal(t, StatusComplete, (&NodeDescriptor{}).Status())

	desc := &NodeDescriptor{Data: map[string]any{"status": "valid"}}
	assert.Equal(t, StatusValid, desc.Status())

	desc = &NodeDescriptor{Data: map[string]any{"status": "bogus"}}
	assert.Equal(t, StatusComplete, desc.Status())
}

func TestProject_CloneIsIndependent(t *testing.T) {
	project := &Project{
		ID:       "p-1",
		Name:     "Orders",
		Revision: "rev-1",
		Schema: GraphSchema{
			Nodes: []NodeDescriptor{
				{ID: "a", Type: "filter", Data: map[string]any{"column": "id"}},
			},
			Connections: []ConnectionDescriptor{
				{ID: "c-1", SourceNode: "a", TargetNode: "b", SourcePort: "main", TargetPort: "main"},
			},
		},
	}

	clone := project.Clone()
	require.NotSame(t, project, clone)
	assert.Equal(t, project, clone)

	clone.Schema.Nodes[0].Data["status"] = "error"
	clone.Schema.Nodes[0].Type = "merge"

	assert.Equal(t, "filter", project.Schema.Nodes[0].Type)
	assert.Nil(t, project.Schema.Nodes[0].Data["status"])
}
