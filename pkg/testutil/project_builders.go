// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"github.com/google/uuid"

	"github.com/dataloom/dataloom/pkg/models"
)

// CreateTestProject creates a test Project with default values that can be
// overridden.
func CreateTestProject(overrides ...func(*models.Project)) *models.Project {
	project := &models.Project{
		ID:       uuid.New().String(),
		Name:     "Test Project",
		Revision: "rev-1",
		Schema: models.GraphSchema{
			Revision:    "rev-1",
			Nodes:       []models.NodeDescriptor{},
			Connections: []models.ConnectionDescriptor{},
		},
	}

	for _, override := range overrides {
		override(project)
	}

	return project
}

// WithProjectName sets the project name.
func WithProjectName(name string) func(*models.Project) {
	return func(p *models.Project) {
		p.Name = name
	}
}

// WithNodes sets the schema node descriptors.
func WithNodes(nodes ...models.NodeDescriptor) func(*models.Project) {
	return func(p *models.Project) {
		p.Schema.Nodes = nodes
	}
}

// WithConnections sets the schema connection descriptors.
func WithConnections(connections ...models.ConnectionDescriptor) func(*models.Project) {
	return func(p *models.Project) {
		p.Schema.Connections = connections
	}
}

// CreateTestNodeDescriptor creates a test NodeDescriptor with default values
// that can be overridden.
func CreateTestNodeDescriptor(overrides ...func(*models.NodeDescriptor)) models.NodeDescriptor {
	node := models.NodeDescriptor{
		ID:       uuid.New().String(),
		Type:     "filter",
		Revision: "rev-1",
		Data:     map[string]any{"column": "id", "operator": "eq", "value": "1"},
		Inputs:   map[string]models.PortDescriptor{"main": {ID: uuid.New().String()}},
		Outputs:  map[string]models.PortDescriptor{"main": {ID: uuid.New().String()}},
	}

	for _, override := range overrides {
		override(&node)
	}

	return node
}

// WithNodeID sets the descriptor ID.
func WithNodeID(id string) func(*models.NodeDescriptor) {
	return func(n *models.NodeDescriptor) {
		n.ID = id
	}
}

// WithNodeType sets the descriptor type.
func WithNodeType(nodeType string) func(*models.NodeDescriptor) {
	return func(n *models.NodeDescriptor) {
		n.Type = nodeType
	}
}

// WithNodeData sets the descriptor configuration data.
func WithNodeData(data map[string]any) func(*models.NodeDescriptor) {
	return func(n *models.NodeDescriptor) {
		n.Data = data
	}
}

// WithNodeStatus stores a persisted status in the descriptor data.
func WithNodeStatus(status models.Status) func(*models.NodeDescriptor) {
	return func(n *models.NodeDescriptor) {
		if n.Data == nil {
			n.Data = make(map[string]any)
		}

		n.Data["status"] = string(status)
	}
}

// WithInputPorts replaces the descriptor input ports by name.
func WithInputPorts(names ...string) func(*models.NodeDescriptor) {
	return func(n *models.NodeDescriptor) {
		n.Inputs = make(map[string]models.PortDescriptor, len(names))
		for _, name := range names {
			n.Inputs[name] = models.PortDescriptor{ID: uuid.New().String()}
		}
	}
}

// WithOutputPorts replaces the descriptor output ports by name.
func WithOutputPorts(names ...string) func(*models.NodeDescriptor) {
	return func(n *models.NodeDescriptor) {
		n.Outputs = make(map[string]models.PortDescriptor, len(names))
		for _, name := range names {
			n.Outputs[name] = models.PortDescriptor{ID: uuid.New().String()}
		}
	}
}

// CreateTestConnection creates a ConnectionDescriptor between two nodes on
// the given ports.
func CreateTestConnection(sourceNode, sourcePort, targetNode, targetPort string) models.ConnectionDescriptor {
	return models.ConnectionDescriptor{
		ID:         uuid.New().String(),
		SourceNode: sourceNode,
		SourcePort: sourcePort,
		TargetNode: targetNode,
		TargetPort: targetPort,
	}
}

// CreateTestUser creates a test User.
func CreateTestUser(overrides ...func(*models.User)) *models.User {
	user := &models.User{
		ID:    uuid.New().String(),
		Name:  "Test User",
		Email: "test@example.com",
	}

	for _, override := range overrides {
		override(user)
	}

	return user
}
