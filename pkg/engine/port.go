package engine

import (
	"fmt"

	"github.com/dataloom/dataloom/pkg/models"
)

// InputPort is a named attachment point through which a node pulls data from
// at most one upstream connection.
type InputPort struct {
	ID   string
	Name string

	node *Node
	conn *Connection
}

// Node returns the owning node. The back-reference exists for ownership
// checks only; the port never mutates its owner.
func (p *InputPort) Node() *Node {
	return p.node
}

// Connection returns the wired edge, or nil when the port is unconnected.
func (p *InputPort) Connection() *Connection {
	return p.conn
}

// ConnectedNode returns the upstream node feeding this port, or nil when the
// port is unconnected.
func (p *InputPort) ConnectedNode() *Node {
	if p.conn == nil {
		return nil
	}

	return p.conn.Source
}

// HasData reports whether the upstream output already holds a value.
func (p *InputPort) HasData() bool {
	if p.conn == nil {
		return false
	}

	return p.conn.SourcePort.HasData()
}

// GetData reads the value produced by the upstream node. It is a pure read:
// it fails with ErrParentNotValid rather than triggering execution when the
// upstream node has not produced data yet.
func (p *InputPort) GetData() (*models.NodeData, error) {
	if p.conn == nil {
		return nil, ErrNoConnection
	}

	if p.conn.Source.Status != models.StatusValid {
		return nil, fmt.Errorf("%w: %s is %s", ErrParentNotValid, p.conn.Source.ID, p.conn.Source.Status)
	}

	return p.conn.SourcePort.GetData(), nil
}

func (p *InputPort) connect(c *Connection) error {
	if p.conn != nil {
		return fmt.Errorf("%w: %s", ErrPortConnected, p.ID)
	}

	p.conn = c

	return nil
}

// OutputPort is a named attachment point through which a node publishes data
// to any number of downstream connections.
type OutputPort struct {
	ID   string
	Name string

	node  *Node
	conns []*Connection
	data  *models.NodeData
}

// Node returns the owning node.
func (p *OutputPort) Node() *Node {
	return p.node
}

// Connections returns the fan-out list wired at import time.
func (p *OutputPort) Connections() []*Connection {
	return p.conns
}

// SetData stores value on the port. Only the owning node may write; any other
// requester fails with ErrPortPermission and leaves the stored data unchanged.
func (p *OutputPort) SetData(value *models.NodeData, requester *Node) error {
	if requester == nil || requester.ID != p.node.ID {
		return fmt.Errorf("%w: port %s belongs to %s", ErrPortPermission, p.ID, p.node.ID)
	}

	p.data = value

	return nil
}

// GetData returns the stored value, or the models.EmptyData sentinel when the
// port never produced one.
func (p *OutputPort) GetData() *models.NodeData {
	if p.data == nil {
		return models.EmptyData
	}

	return p.data
}

// HasData reports whether the port holds a non-empty value.
func (p *OutputPort) HasData() bool {
	return !p.data.IsEmpty()
}

func (p *OutputPort) attach(c *Connection) {
	p.conns = append(p.conns, c)
}
