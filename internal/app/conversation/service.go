package conversation

import (
	"context"
	"time"

	"aftercare/internal/app/agentflow"
	"aftercare/internal/domain"
	"aftercare/internal/observability"
)

// Service drives conversation turns: it loads or creates session state, runs
// the agent flow, and persists the result. A turn that fails leaves the
// stored session exactly as it was.
type Service struct {
	store        domain.SessionStore
	orchestrator *agentflow.Orchestrator
	now          func() time.Time
}

func NewService(store domain.SessionStore, orchestrator *agentflow.Orchestrator) *Service {
	return &Service{
		store:        store,
		orchestrator: orchestrator,
		now:          time.Now,
	}
}

// WithClock overrides the service's time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type TurnInput struct {
	UserID    domain.UserID
	SessionID domain.SessionID
	Message   string

	// Retrieval switches, honored only when the session is created.
	RAGEnabled       bool
	WebSearchEnabled bool
}

type TurnOutput struct {
	Answer       string            `json:"answer"`
	Agent        domain.AgentName  `json:"agent"`
	Handoffs     []string          `json:"handoffs"`
	Metadata     map[string]any    `json:"metadata"`
	Sources      []domain.Citation `json:"sources,omitempty"`
	PatientFound bool              `json:"patient_found"`
}

// ProcessTurn runs one user message through the agent flow and returns the
// assistant's answer. Never returns an error to the caller: failures degrade
// to a fixed apology carrying the error sentinel agent.
func (s *Service) ProcessTurn(ctx context.Context, in TurnInput) TurnOutput {
	log := observability.LoggerFromContext(ctx).With(
		"session_id", in.SessionID,
		"user_id", in.UserID,
	)

	state, ok := s.store.Get(in.SessionID)
	if ok {
		log.Info("continuing session")
		// Work on a copy so a failed turn cannot leak partial updates
		// into the store.
		state = state.Clone()
	} else {
		log.Info("starting new session")
		state = domain.NewSessionState(in.UserID, in.SessionID, in.RAGEnabled, in.WebSearchEnabled)
	}

	state.LatestQuery = in.Message
	state.LatestResponse = ""
	state.AppendMessage(domain.RoleUser, in.Message, "", s.now())

	if err := s.orchestrator.RunTurn(ctx, state); err != nil {
		log.Error("turn failed", "error", err)
		return TurnOutput{
			Answer:   domain.MsgTurnError,
			Agent:    domain.AgentError,
			Handoffs: []string{},
			Metadata: map[string]any{"error": err.Error()},
		}
	}

	s.store.Save(in.SessionID, state)

	return TurnOutput{
		Answer:       state.LatestResponse,
		Agent:        state.CurrentAgent,
		Handoffs:     append([]string(nil), state.Handoffs...),
		Metadata:     state.Metadata,
		Sources:      citationsFromMetadata(state.Metadata),
		PatientFound: state.PatientRecord != nil,
	}
}

// ActiveSessions reports how many unexpired sessions the store holds.
func (s *Service) ActiveSessions() int {
	return s.store.CountActive()
}

// ClearSession drops a session's state.
func (s *Service) ClearSession(id domain.SessionID) {
	s.store.Clear(id)
}

// SweepSessions evicts expired sessions and reports how many were dropped.
func (s *Service) SweepSessions() int {
	return s.store.Sweep()
}

func citationsFromMetadata(metadata map[string]any) []domain.Citation {
	citations, _ := metadata["citations"].([]domain.Citation)
	return citations
}
