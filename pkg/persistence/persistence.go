// Package persistence provides the storage abstraction for project schemas.
package persistence

import (
	"context"
	"errors"

	"github.com/dataloom/dataloom/pkg/models"
)

// ErrProjectNotFound is returned when a project does not exist in the store.
var ErrProjectNotFound = errors.New("project not found")

// Persistence stores and retrieves project schemas. The engine itself never
// persists anything; workflows export node state back into the schema and the
// caller decides when to save it.
type Persistence interface {
	Projects(ctx context.Context) ([]*models.Project, error)
	ProjectByID(ctx context.Context, id string) (*models.Project, error)
	SaveProject(ctx context.Context, project *models.Project) error
	DeleteProject(ctx context.Context, id string) error
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}

// IsProjectNotFound reports whether err means the project does not exist.
func IsProjectNotFound(err error) bool {
	return errors.Is(err, ErrProjectNotFound)
}
