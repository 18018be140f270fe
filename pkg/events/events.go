// Package events defines event types emitted during graph execution.
package events

import (
	"time"

	"github.com/dataloom/dataloom/pkg/models"
)

type EventType string

// Topic carries all engine lifecycle events.
const Topic = "dataloom.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	WorkflowExecutionStartedEvent  EventType = "workflow.execution.started"
	WorkflowExecutionFinishedEvent EventType = "workflow.execution.finished"
	NodeExecutionStartedEvent      EventType = "node.execution.started"
	NodeExecutionFinishedEvent     EventType = "node.execution.finished"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	ProjectID string    `json:"project_id"`
}

type WorkflowExecutionStarted struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
	TargetNode  string `json:"target_node,omitempty"`
	Sample      bool   `json:"sample"`
}

func (e WorkflowExecutionStarted) GetType() EventType {
	return WorkflowExecutionStartedEvent
}

type WorkflowExecutionFinished struct {
	BaseEvent

	ExecutionID string        `json:"execution_id"`
	Duration    time.Duration `json:"duration"`
}

func (e WorkflowExecutionFinished) GetType() EventType {
	return WorkflowExecutionFinishedEvent
}

type NodeExecutionStarted struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
	NodeID      string `json:"node_id"`
	NodeType    string `json:"node_type"`
}

func (e NodeExecutionStarted) GetType() EventType {
	return NodeExecutionStartedEvent
}

type NodeExecutionFinished struct {
	BaseEvent

	ExecutionID   string        `json:"execution_id"`
	NodeID        string        `json:"node_id"`
	NodeType      string        `json:"node_type"`
	Status        models.Status `json:"status"`
	StatusMessage string        `json:"status_message,omitempty"`
	Duration      time.Duration `json:"duration"`
}

func (e NodeExecutionFinished) GetType() EventType {
	return NodeExecutionFinishedEvent
}
