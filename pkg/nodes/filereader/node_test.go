package filereader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/models"
)

func writeTestFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func newReaderNode(t *testing.T, config map[string]any) *engine.Node {
	t.Helper()

	proc, err := NewFileReaderNode("r", config)
	require.NoError(t, err)

	node := engine.NewNode("r", "file-reader", "rev-1", config, models.StatusComplete, proc)
	node.AddOutput(OutputPortMain, "r-out")

	return node
}

func TestFileReaderNode_ReadsCSV(t *testing.T) {
	path := writeTestFile(t, "id,name\n1,ana\n2,bo\n")

	node := newReaderNode(t, map[string]any{"path": path})

	require.Equal(t, models.StatusValid, node.Execute(context.Background(), false))

	data := node.Outputs[OutputPortMain].GetData()
	assert.Equal(t, models.DataTypeTabular, data.Type)
	assert.Equal(t, map[string]any{"fields": []string{"id", "name"}}, data.Schema)

	rows, ok := data.Rows()
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, "ana", rows[0]["name"])
}

func TestFileReaderNode_CustomDelimiter(t *testing.T) {
	path := writeTestFile(t, "id;name\n1;ana\n")

	node := newReaderNode(t, map[string]any{"path": path, "delimiter": ";"})

	require.Equal(t, models.StatusValid, node.Execute(context.Background(), false))

	rows, _ := node.Outputs[OutputPortMain].GetData().Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0]["id"])
}

func TestFileReaderNode_SampleBoundsRows(t *testing.T) {
	path := writeTestFile(t, "id\n1\n2\n3\n4\n")

	node := newReaderNode(t, map[string]any{"path": path, "sampleRows": float64(2)})

	require.Equal(t, models.StatusValid, node.Execute(context.Background(), true))

	data := node.Outputs[OutputPortMain].GetData()
	assert.Nil(t, data.Data)

	rows, ok := data.Rows()
	require.True(t, ok)
	assert.Len(t, rows, 2)
}

func TestFileReaderNode_MissingFileFails(t *testing.T) {
	node := newReaderNode(t, map[string]any{"path": "/nonexistent/input.csv"})

	status := node.Execute(context.Background(), false)

	assert.Equal(t, models.StatusError, status)
	assert.Contains(t, node.StatusMessage, "failed to open")
	assert.NotEmpty(t, node.ErrorStackTrace)
}
