package agentflow

import (
	"context"
	"fmt"
	"time"

	"aftercare/internal/domain"
	"aftercare/internal/observability"
)

// Orchestrator runs one conversation turn through the agent flow. Every turn
// starts at the receptionist; at most one handoff to the clinical agent can
// happen within a turn, and the turn ends after the clinical agent responds.
type Orchestrator struct {
	receptionist Agent
	clinical     Agent
	now          func() time.Time
}

func NewOrchestrator(receptionist, clinical Agent) *Orchestrator {
	return &Orchestrator{
		receptionist: receptionist,
		clinical:     clinical,
		now:          time.Now,
	}
}

// WithClock overrides the orchestrator's time source.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// RunTurn mutates state in place. A returned error means the turn failed and
// the state must not be persisted; panics inside agents surface as errors.
func (o *Orchestrator) RunTurn(ctx context.Context, state *domain.SessionState) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("agent flow panicked: %v", r)
		}
	}()

	log := observability.LoggerFromContext(ctx).With(
		"session_id", state.SessionID,
		"user_id", state.UserID,
	)
	log.Info("turn started", "query", truncate(state.LatestQuery, 100))

	// Routing is re-evaluated from scratch each turn.
	state.CurrentAgent = domain.AgentReceptionist

	if err := o.runAgent(ctx, o.receptionist, state); err != nil {
		return err
	}

	if state.CurrentAgent == domain.AgentClinical {
		if err := o.runAgent(ctx, o.clinical, state); err != nil {
			return err
		}
	}

	log.Info("turn finished",
		"agent", state.CurrentAgent,
		"handoffs", len(state.Handoffs))
	return nil
}

func (o *Orchestrator) runAgent(ctx context.Context, ag Agent, state *domain.SessionState) error {
	log := observability.LoggerFromContext(ctx)

	start := o.now()
	update, err := ag.Process(ctx, state)
	if err != nil {
		log.Error("agent failed", "agent", ag.Name(), "error", err)
		return fmt.Errorf("agent %s failed: %w", ag.Name(), err)
	}
	log.Info("agent done", "agent", ag.Name(), "elapsed_ms", o.now().Sub(start).Milliseconds())

	state.Apply(update)

	if update.LatestResponse != nil && *update.LatestResponse != "" {
		state.AppendMessage(domain.RoleAssistant, *update.LatestResponse, ag.Name(), o.now())
	}
	return nil
}
