// Package models defines the core domain models for node-graph execution.
package models

// Status is the lifecycle stage of a node within a workflow execution.
type Status string

const (
	// StatusIncomplete marks a node whose configuration does not meet the
	// minimal requirements to run.
	StatusIncomplete Status = "incomplete"
	// StatusComplete marks a node that is configured and wired but has not
	// produced output yet.
	StatusComplete Status = "complete"
	// StatusValid marks a node that executed successfully and whose outputs
	// hold data.
	StatusValid Status = "valid"
	// StatusError marks a node that failed; statusMessage and the stack
	// trace are populated alongside.
	StatusError Status = "error"
)

// Runnable reports whether a node in this status is eligible to enter
// execution. Only complete and valid nodes re-enter; everything else is
// returned unchanged by the executor.
func (s Status) Runnable() bool {
	return s == StatusComplete || s == StatusValid
}

// Known reports whether s is one of the four defined statuses.
func (s Status) Known() bool {
	switch s {
	case StatusIncomplete, StatusComplete, StatusValid, StatusError:
		return true
	}

	return false
}
