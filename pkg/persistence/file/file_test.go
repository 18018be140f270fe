package file

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataloom/dataloom/pkg/persistence"
	"github.com/dataloom/dataloom/pkg/testutil"
)

func TestPersistence_SaveAndFetch(t *testing.T) {
	store := NewPersistence(t.TempDir())
	ctx := context.Background()

	project := testutil.CreateTestProject(
		testutil.WithNodes(testutil.CreateTestNodeDescriptor()),
	)

	require.NoError(t, store.SaveProject(ctx, project))

	fetched, err := store.ProjectByID(ctx, project.ID)
	require.NoError(t, err)

	assert.Equal(t, project.ID, fetched.ID)
	assert.Equal(t, project.Name, fetched.Name)
	assert.Len(t, fetched.Schema.Nodes, 1)
}

func TestPersistence_FetchMissingProject(t *testing.T) {
	store := NewPersistence(t.TempDir())

	_, err := store.ProjectByID(context.Background(), "missing")

	assert.True(t, persistence.IsProjectNotFound(err))
}

func TestPersistence_ProjectsListsAll(t *testing.T) {
	store := NewPersistence(t.TempDir())
	ctx := context.Background()

	projects, err := store.Projects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)

	require.NoError(t, store.SaveProject(ctx, testutil.CreateTestProject()))
	require.NoError(t, store.SaveProject(ctx, testutil.CreateTestProject()))

	projects, err = store.Projects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}

func TestPersistence_SaveOverwrites(t *testing.T) {
	store := NewPersistence(t.TempDir())
	ctx := context.Background()

	project := testutil.CreateTestProject()
	require.NoError(t, store.SaveProject(ctx, project))

	project.Name = "Renamed"
	require.NoError(t, store.SaveProject(ctx, project))

	fetched, err := store.ProjectByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", fetched.Name)
}

func TestPersistence_Delete(t *testing.T) {
	store := NewPersistence(t.TempDir())
	ctx := context.Background()

	project := testutil.CreateTestProject()
	require.NoError(t, store.SaveProject(ctx, project))
	require.NoError(t, store.DeleteProject(ctx, project.ID))

	_, err := store.ProjectByID(ctx, project.ID)
	assert.True(t, persistence.IsProjectNotFound(err))

	err = store.DeleteProject(ctx, project.ID)
	assert.True(t, persistence.IsProjectNotFound(err))
}

func TestPersistence_FileURLPrefix(t *testing.T) {
	dir := t.TempDir()
	store := NewPersistence("file://" + dir)
	ctx := context.Background()

	require.NoError(t, store.SaveProject(ctx, testutil.CreateTestProject()))
	require.NoError(t, store.HealthCheck(ctx))
	require.NoError(t, store.Close(ctx))
}
