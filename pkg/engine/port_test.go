package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataloom/dataloom/pkg/models"
)

func TestOutputPort_SetDataRejectsForeignNode(t *testing.T) {
	owner := newSourceNode("owner", &stubProcessor{})
	intruder := newSourceNode("intruder", &stubProcessor{})

	out := owner.Outputs["main"]
	payload := models.NewTabular("t", nil, []map[string]any{{"id": 1}}, false)

	err := out.SetData(payload, intruder)
	require.ErrorIs(t, err, ErrPortPermission)

	err = out.SetData(payload, nil)
	require.ErrorIs(t, err, ErrPortPermission)

	assert.False(t, out.HasData(), "rejected write must leave the port unchanged")
	assert.Same(t, models.EmptyData, out.GetData())
}

func TestOutputPort_SetDataAcceptsOwner(t *testing.T) {
	owner := newSourceNode("owner", &stubProcessor{})
	out := owner.Outputs["main"]

	payload := models.NewTabular("t", nil, []map[string]any{{"id": 1}}, false)
	require.NoError(t, out.SetData(payload, owner))

	assert.True(t, out.HasData())
	assert.Same(t, payload, out.GetData())
}

func TestOutputPort_EmptySentinel(t *testing.T) {
	owner := newSourceNode("owner", &stubProcessor{})
	out := owner.Outputs["main"]

	assert.False(t, out.HasData())
	assert.Same(t, models.EmptyData, out.GetData())
	assert.True(t, out.GetData().IsEmpty())
}

func TestInputPort_GetDataWithoutConnection(t *testing.T) {
	sink := newSinkNode("b", &stubProcessor{})

	_, err := sink.Inputs["main"].GetData()
	assert.ErrorIs(t, err, ErrNoConnection)
	assert.False(t, sink.Inputs["main"].HasData())
}

func TestInputPort_GetDataParentNotValid(t *testing.T) {
	source := newSourceNode("a", &stubProcessor{})
	sink := newSinkNode("b", &stubProcessor{})
	wire(t, source, sink)

	_, err := sink.Inputs["main"].GetData()
	assert.ErrorIs(t, err, ErrParentNotValid)
}

func TestInputPort_GetDataAfterParentExecuted(t *testing.T) {
	rows := []map[string]any{{"id": 1}}
	source := newSourceNode("a", &stubProcessor{rows: rows})
	sink := newSinkNode("b", &stubProcessor{})
	wire(t, source, sink)

	require.Equal(t, models.StatusValid, source.Execute(context.Background(), false))

	data, err := sink.Inputs["main"].GetData()
	require.NoError(t, err)

	got, ok := data.Rows()
	require.True(t, ok)
	assert.Equal(t, rows, got)
}

func TestConnect_FanOut(t *testing.T) {
	rows := []map[string]any{{"id": 1}}
	source := newSourceNode("a", &stubProcessor{rows: rows})
	left := newSinkNode("b", &stubProcessor{})
	right := newSinkNode("c", &stubProcessor{})

	wire(t, source, left)
	wire(t, source, right)

	require.Equal(t, models.StatusValid, source.Execute(context.Background(), false))

	assert.Len(t, source.Outputs["main"].Connections(), 2)

	for _, sink := range []*Node{left, right} {
		data, err := sink.Inputs["main"].GetData()
		require.NoError(t, err)
		assert.Same(t, source.Outputs["main"].GetData(), data)
	}
}

func TestConnect_InputPortAcceptsSingleConnection(t *testing.T) {
	first := newSourceNode("a", &stubProcessor{})
	second := newSourceNode("b", &stubProcessor{})
	sink := newSinkNode("c", &stubProcessor{})

	wire(t, first, sink)

	_, err := Connect("", second, "main", sink, "main")
	assert.ErrorIs(t, err, ErrPortConnected)
}

func TestConnect_UnknownPorts(t *testing.T) {
	source := newSourceNode("a", &stubProcessor{})
	sink := newSinkNode("b", &stubProcessor{})

	_, err := Connect("", source, "missing", sink, "main")
	assert.ErrorIs(t, err, ErrUnknownPort)

	_, err = Connect("", source, "main", sink, "missing")
	assert.ErrorIs(t, err, ErrUnknownPort)
}

func TestConnect_GeneratesID(t *testing.T) {
	source := newSourceNode("a", &stubProcessor{})
	sink := newSinkNode("b", &stubProcessor{})

	conn, err := Connect("", source, "main", sink, "main")
	require.NoError(t, err)

	assert.NotEmpty(t, conn.ID)
	assert.Contains(t, conn.ID, "conn-")
}
