package models

import "encoding/json"

// Project is the declarative schema a workflow is imported from and exported
// back into. It is what the persistence layer stores and the API exchanges.
type Project struct {
	ID       string      `json:"id"       validate:"required"`
	Name     string      `json:"name"     validate:"required,min=1"`
	Revision string      `json:"revision"`
	Schema   GraphSchema `json:"schema"`
}

// GraphSchema describes the node graph: typed nodes, their ports, and the
// connections between them.
type GraphSchema struct {
	Nodes       []NodeDescriptor       `json:"nodes"`
	Connections []ConnectionDescriptor `json:"connections"`
	Revision    string                 `json:"revision"`
}

// NodeDescriptor is one node entry in a project schema. Data carries the
// free-form configuration consumed by the concrete node implementation; after
// an export it additionally holds status, statusMessage, errorStacktrace and
// dataOutput.
type NodeDescriptor struct {
	ID       string                    `json:"id"   validate:"required"`
	Type     string                    `json:"type" validate:"required"`
	Revision string                    `json:"revision"`
	Data     map[string]any            `json:"data"`
	Inputs   map[string]PortDescriptor `json:"inputs,omitempty"`
	Outputs  map[string]PortDescriptor `json:"outputs,omitempty"`
}

// PortDescriptor identifies a declared port on a node descriptor.
type PortDescriptor struct {
	ID string `json:"id"`
}

// ConnectionDescriptor is one edge entry in a project schema, referencing
// nodes and ports by name.
type ConnectionDescriptor struct {
	ID         string `json:"id"`
	SourceNode string `json:"sourceNode" validate:"required"`
	TargetNode string `json:"targetNode" validate:"required"`
	SourcePort string `json:"sourcePort" validate:"required"`
	TargetPort string `json:"targetPort" validate:"required"`
}

// Status reads the node status embedded in the descriptor data by a previous
// export. A descriptor without one defaults to complete.
func (n *NodeDescriptor) Status() Status {
	if raw, ok := n.Data["status"].(string); ok {
		if s := Status(raw); s.Known() {
			return s
		}
	}

	return StatusComplete
}

// Clone returns a deep copy of the project via a JSON round trip, so exports
// can be written into the copy without touching the original.
func (p *Project) Clone() *Project {
	raw, err := json.Marshal(p)
	if err != nil {
		return &Project{ID: p.ID, Name: p.Name, Revision: p.Revision}
	}

	var out Project

	if err := json.Unmarshal(raw, &out); err != nil {
		return &Project{ID: p.ID, Name: p.Name, Revision: p.Revision}
	}

	return &out
}
