package agentflow

import (
	"context"

	"aftercare/internal/domain"
)

// Agent is a single step in the care flow. Each agent reads the session
// state and returns a partial update; it never mutates the state directly.
type Agent interface {
	Name() domain.AgentName
	Process(ctx context.Context, state *domain.SessionState) (domain.StateUpdate, error)
}
