package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// Connection is a directed edge from one node's output port to another
// node's input port. Connections are created only at import time and are
// immutable afterwards.
type Connection struct {
	ID         string
	Source     *Node
	Target     *Node
	SourcePort *OutputPort
	TargetPort *InputPort
}

// Connect wires source's named output port to target's named input port,
// threading the edge onto the source fan-out list and the target single slot.
func Connect(id string, source *Node, sourcePort string, target *Node, targetPort string) (*Connection, error) {
	out, ok := source.Outputs[sourcePort]
	if !ok {
		return nil, fmt.Errorf("%w: node %s has no output %q", ErrUnknownPort, source.ID, sourcePort)
	}

	in, ok := target.Inputs[targetPort]
	if !ok {
		return nil, fmt.Errorf("%w: node %s has no input %q", ErrUnknownPort, target.ID, targetPort)
	}

	if id == "" {
		id = "conn-" + uuid.New().String()[:8]
	}

	c := &Connection{
		ID:         id,
		Source:     source,
		Target:     target,
		SourcePort: out,
		TargetPort: in,
	}

	if err := in.connect(c); err != nil {
		return nil, err
	}

	out.attach(c)

	return c, nil
}
