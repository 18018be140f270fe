// Package engine implements the live node graph: wired ports, connections,
// and the dependency-ordered execution protocol.
package engine

import "errors"

var (
	// ErrNoConnection is returned when reading an input port that was never
	// wired to an upstream output.
	ErrNoConnection = errors.New("no connection available")

	// ErrParentNotValid is returned when reading an input port whose upstream
	// node has not reached valid status. Reading never triggers execution.
	ErrParentNotValid = errors.New("parent node is not valid")

	// ErrPortPermission is returned when a node other than the owner attempts
	// to write an output port. This is a distinct failure kind and is never
	// downgraded to a generic processing error.
	ErrPortPermission = errors.New("requesting node does not own this output port")

	// ErrPortConnected is returned when wiring a connection onto an input
	// port that already has one; input ports accept at most one edge.
	ErrPortConnected = errors.New("input port already has a connection")

	// ErrUnknownPort is returned when a connection references a port name the
	// node never declared.
	ErrUnknownPort = errors.New("unknown port")
)

// Status messages surfaced on nodes that fail before or during execution.
const (
	msgIncompleteParameters = "did not fulfill minimal parameters"
	msgParentError          = "a parent node has an error status"
	msgParentIncomplete     = "a parent node did not fulfill all minimal parameters"
	msgParentUnknownStatus  = "unknown parent node status encountered"
)
