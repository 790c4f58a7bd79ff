package agentflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aftercare/internal/domain"
)

type scriptedAgent struct {
	name   domain.AgentName
	update domain.StateUpdate
	err    error
	panics bool
	calls  int
}

func (a *scriptedAgent) Name() domain.AgentName { return a.name }

func (a *scriptedAgent) Process(_ context.Context, _ *domain.SessionState) (domain.StateUpdate, error) {
	a.calls++
	if a.panics {
		panic("scripted panic")
	}
	return a.update, a.err
}

func respondWith(name domain.AgentName, response string) *scriptedAgent {
	agent := name
	return &scriptedAgent{
		name: name,
		update: domain.StateUpdate{
			LatestResponse: &response,
			CurrentAgent:   &agent,
		},
	}
}

func handoffReceptionist() *scriptedAgent {
	clinical := domain.AgentClinical
	handoff := domain.HandoffReceptionistToClinical
	notice := domain.HandoffNotice
	return &scriptedAgent{
		name: domain.AgentReceptionist,
		update: domain.StateUpdate{
			CurrentAgent:   &clinical,
			Handoff:        &handoff,
			LatestResponse: &notice,
		},
	}
}

func TestOrchestratorReceptionistOnlyTurn(t *testing.T) {
	receptionist := respondWith(domain.AgentReceptionist, "Hello John!")
	clinical := respondWith(domain.AgentClinical, "unused")
	orch := NewOrchestrator(receptionist, clinical).WithClock(timeStub)

	state := newSession("Hi, my name is John Smith")
	require.NoError(t, orch.RunTurn(context.Background(), state))

	assert.Equal(t, 1, receptionist.calls)
	assert.Equal(t, 0, clinical.calls)
	assert.Equal(t, domain.AgentReceptionist, state.CurrentAgent)
	assert.Equal(t, "Hello John!", state.LatestResponse)
	assert.Empty(t, state.Handoffs)

	require.Len(t, state.ConversationHistory, 1)
	msg := state.ConversationHistory[0]
	assert.Equal(t, domain.RoleAssistant, msg.Role)
	assert.Equal(t, domain.AgentReceptionist, msg.Agent)
	assert.Equal(t, timeStub(), msg.Timestamp)
}

func TestOrchestratorHandoffTurn(t *testing.T) {
	receptionist := handoffReceptionist()
	clinical := respondWith(domain.AgentClinical, "CKD is staged by GFR.")
	orch := NewOrchestrator(receptionist, clinical).WithClock(timeStub)

	state := newSession("What is chronic kidney disease?")
	require.NoError(t, orch.RunTurn(context.Background(), state))

	assert.Equal(t, 1, receptionist.calls)
	assert.Equal(t, 1, clinical.calls)
	assert.Equal(t, domain.AgentClinical, state.CurrentAgent)
	assert.Equal(t, "CKD is staged by GFR.", state.LatestResponse)
	assert.Equal(t, []string{domain.HandoffReceptionistToClinical}, state.Handoffs)

	// Both the handoff notice and the clinical answer land in the history.
	require.Len(t, state.ConversationHistory, 2)
	assert.Equal(t, domain.HandoffNotice, state.ConversationHistory[0].Content)
	assert.Equal(t, domain.AgentReceptionist, state.ConversationHistory[0].Agent)
	assert.Equal(t, "CKD is staged by GFR.", state.ConversationHistory[1].Content)
	assert.Equal(t, domain.AgentClinical, state.ConversationHistory[1].Agent)
}

func TestOrchestratorResetsRoutingEachTurn(t *testing.T) {
	receptionist := respondWith(domain.AgentReceptionist, "Back with reception.")
	clinical := respondWith(domain.AgentClinical, "unused")
	orch := NewOrchestrator(receptionist, clinical).WithClock(timeStub)

	// A previous turn left the session on the clinical agent.
	state := newSession("thanks!")
	state.CurrentAgent = domain.AgentClinical

	require.NoError(t, orch.RunTurn(context.Background(), state))

	assert.Equal(t, 0, clinical.calls)
	assert.Equal(t, domain.AgentReceptionist, state.CurrentAgent)
}

func TestOrchestratorPropagatesAgentError(t *testing.T) {
	receptionist := &scriptedAgent{name: domain.AgentReceptionist, err: errors.New("boom")}
	orch := NewOrchestrator(receptionist, respondWith(domain.AgentClinical, "unused")).WithClock(timeStub)

	state := newSession("hello")
	err := orch.RunTurn(context.Background(), state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "receptionist")
	assert.Empty(t, state.ConversationHistory)
}

func TestOrchestratorRecoversFromPanic(t *testing.T) {
	receptionist := &scriptedAgent{name: domain.AgentReceptionist, panics: true}
	orch := NewOrchestrator(receptionist, respondWith(domain.AgentClinical, "unused")).WithClock(timeStub)

	err := orch.RunTurn(context.Background(), newSession("hello"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}

func TestOrchestratorSkipsEmptyResponses(t *testing.T) {
	receptionist := &scriptedAgent{
		name:   domain.AgentReceptionist,
		update: domain.StateUpdate{},
	}
	orch := NewOrchestrator(receptionist, respondWith(domain.AgentClinical, "unused")).WithClock(timeStub)

	state := newSession("...")
	require.NoError(t, orch.RunTurn(context.Background(), state))
	assert.Empty(t, state.ConversationHistory)
}
