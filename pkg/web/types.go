// Package web provides HTTP request and response types for the project API.
package web

import "github.com/dataloom/dataloom/pkg/models"

// CreateProjectRequest represents the request body for creating a new project.
type CreateProjectRequest struct {
	Name     string `json:"name"     validate:"required,min=3"`
	Revision string `json:"revision"`
}

// UpdateProjectRequest represents the request body for replacing a project
// schema. The schema document is accepted as-is; node and connection
// validation happens at import time.
type UpdateProjectRequest struct {
	Name     string             `json:"name"     validate:"required,min=3"`
	Revision string             `json:"revision"`
	Schema   models.GraphSchema `json:"schema"`
}

// ExecuteProjectRequest represents the request body for running a project
// graph. NodeID narrows the run to one node and its dependencies; Sample asks
// for a bounded preview run.
type ExecuteProjectRequest struct {
	NodeID string       `json:"node_id,omitempty"`
	Sample bool         `json:"sample"`
	User   *UserPayload `json:"user,omitempty"`
}

// UserPayload identifies the user a run acts on behalf of.
type UserPayload struct {
	ID    string `json:"id"    validate:"required"`
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

// NodeTypeResponse describes one registered node type in the catalog listing.
type NodeTypeResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"schema,omitempty"`
}
