// Package file provides file-based persistence for project schemas: one JSON
// document per project under a root directory.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dataloom/dataloom/pkg/models"
	"github.com/dataloom/dataloom/pkg/persistence"
)

// Persistence implements persistence.Persistence on the local filesystem.
type Persistence struct {
	root string
}

// NewPersistence creates a file store rooted at the given directory,
// accepting an optional file:// prefix.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{root: cleanRoot}
}

func (p *Persistence) projectPath(id string) string {
	return filepath.Join(p.root, "projects", id+".json")
}

func (p *Persistence) Projects(ctx context.Context) ([]*models.Project, error) {
	dir := filepath.Join(p.root, "projects")

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*models.Project{}, nil
		}

		return nil, fmt.Errorf("failed to read project directory: %w", err)
	}

	projects := make([]*models.Project, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		project, err := p.ProjectByID(ctx, strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			return nil, err
		}

		projects = append(projects, project)
	}

	return projects, nil
}

func (p *Persistence) ProjectByID(_ context.Context, id string) (*models.Project, error) {
	raw, err := os.ReadFile(p.projectPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrProjectNotFound
		}

		return nil, fmt.Errorf("failed to read project %s: %w", id, err)
	}

	var project models.Project

	if err := json.Unmarshal(raw, &project); err != nil {
		return nil, fmt.Errorf("failed to decode project %s: %w", id, err)
	}

	return &project, nil
}

func (p *Persistence) SaveProject(_ context.Context, project *models.Project) error {
	dir := filepath.Join(p.root, "projects")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	raw, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project %s: %w", project.ID, err)
	}

	if err := os.WriteFile(p.projectPath(project.ID), raw, 0o644); err != nil {
		return fmt.Errorf("failed to write project %s: %w", project.ID, err)
	}

	return nil
}

func (p *Persistence) DeleteProject(_ context.Context, id string) error {
	if err := os.Remove(p.projectPath(id)); err != nil {
		if os.IsNotExist(err) {
			return persistence.ErrProjectNotFound
		}

		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}

	return nil
}

func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup; nothing to do for files.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}
