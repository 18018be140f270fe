// Package execution carries the ambient per-execution state: the acting user
// and the active workflow. The scope travels on the context.Context of one
// logical execution, so concurrent executions in the same process can never
// observe each other's identity.
package execution

import (
	"context"
	"sync"

	"github.com/dataloom/dataloom/pkg/models"
)

// WorkflowInfo identifies the workflow a scope is bound to.
type WorkflowInfo struct {
	ID   string
	Name string
}

// Scope holds the two ambient slots readable by any node during a run. A
// scope belongs to exactly one logical execution; orchestrating callers must
// Clear it in a defer once the execution returns, success or failure.
type Scope struct {
	mu       sync.RWMutex
	user     *models.User
	workflow *WorkflowInfo
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

func (s *Scope) SetUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

func (s *Scope) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.user
}

func (s *Scope) SetWorkflow(w *WorkflowInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workflow = w
}

func (s *Scope) Workflow() *WorkflowInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.workflow
}

// WorkflowID returns the active workflow's ID, or "" outside an execution.
func (s *Scope) WorkflowID() string {
	if w := s.Workflow(); w != nil {
		return w.ID
	}

	return ""
}

// WorkflowName returns the active workflow's name, or "" outside an execution.
func (s *Scope) WorkflowName() string {
	if w := s.Workflow(); w != nil {
		return w.Name
	}

	return ""
}

// Clear resets both slots so a later execution reusing the same scope cannot
// observe stale identity.
func (s *Scope) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.workflow = nil
}

type scopeKey struct{}

// WithScope attaches a scope to ctx.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// FromContext returns the scope attached to ctx. Outside an execution it
// returns an empty scope, so reads are always safe.
func FromContext(ctx context.Context) *Scope {
	if s, ok := ctx.Value(scopeKey{}).(*Scope); ok {
		return s
	}

	return NewScope()
}
