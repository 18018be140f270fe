package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/eventbus/gochannel"
	"github.com/dataloom/dataloom/pkg/models"
	"github.com/dataloom/dataloom/pkg/persistence/file"
	"github.com/dataloom/dataloom/pkg/registry"
	"github.com/dataloom/dataloom/pkg/testutil"
)

func setupTestAPI(t *testing.T) (*fiber.App, *file.Persistence) {
	t.Helper()

	store := file.NewPersistence(t.TempDir())

	reg := registry.NewRegistry(slog.Default())
	reg.RegisterDefaultNodes()

	bus := gochannel.NewEventBus(watermill.NopLogger{})
	t.Cleanup(func() { _ = bus.Close() })

	pool := engine.NewPool(2)
	t.Cleanup(pool.Close)

	api := NewAPI(slog.Default(), store, reg, bus, pool)

	return api.App(), store
}

func closeBody(t *testing.T, resp *http.Response) {
	t.Helper()

	if err := resp.Body.Close(); err != nil {
		t.Logf("Failed to close response body: %v", err)
	}
}

func TestAPI_RootEndpoint(t *testing.T) {
	app, _ := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Dataloom API", string(body))
}

func TestAPI_GetProjects_Empty(t *testing.T) {
	app, _ := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/projects/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Projects   []models.Project `json:"projects"`
		TotalCount int              `json:"total_count"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Empty(t, payload.Projects)
	assert.Zero(t, payload.TotalCount)
}

func TestAPI_CreateAndGetProject(t *testing.T) {
	app, _ := setupTestAPI(t)

	body := bytes.NewBufferString(`{"name": "Orders Pipeline", "revision": "rev-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/projects/", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Project
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Orders Pipeline", created.Name)

	getReq := httptest.NewRequest(http.MethodGet, "/projects/"+created.ID, nil)
	getResp, err := app.Test(getReq)
	require.NoError(t, err)

	defer closeBody(t, getResp)

	assert.Equal(t, http.StatusOK, getResp.StatusCode)
}

func TestAPI_CreateProject_ValidationError(t *testing.T) {
	app, _ := setupTestAPI(t)

	body := bytes.NewBufferString(`{"name": "ab"}`)
	req := httptest.NewRequest(http.MethodPost, "/projects/", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_GetProject_NotFound(t *testing.T) {
	app, _ := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/projects/missing", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_NodeTypesCatalog(t *testing.T) {
	app, _ := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/node-types", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var types []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&types))
	assert.Len(t, types, 8)
}

func TestAPI_ExecuteProject(t *testing.T) {
	app, store := setupTestAPI(t)

	// A single filter node with nothing connected upstream fails on read,
	// which still proves the execute endpoint runs the graph and saves state.
	project := testutil.CreateTestProject(
		testutil.WithNodes(testutil.CreateTestNodeDescriptor(
			testutil.WithNodeID("f"),
			testutil.WithNodeType("filter"),
		)),
	)
	require.NoError(t, store.SaveProject(t.Context(), project))

	req := httptest.NewRequest(http.MethodPost, "/projects/"+project.ID+"/execute", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Project
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	require.Len(t, updated.Schema.Nodes, 1)
	assert.Equal(t, "error", updated.Schema.Nodes[0].Data["status"])

	saved, err := store.ProjectByID(t.Context(), project.ID)
	require.NoError(t, err)
	assert.Equal(t, "error", saved.Schema.Nodes[0].Data["status"])
}
