package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyMergesOnlyDeclaredFields(t *testing.T) {
	state := NewSessionState("u1", "s1", true, true)
	state.PatientName = "John Smith"
	state.LatestResponse = "previous answer"
	state.Handoffs = []string{"receptionist->clinical"}
	state.Metadata = map[string]any{"model_used": "gemini-2.5-flash"}

	response := "new answer"
	state.Apply(StateUpdate{LatestResponse: &response})

	assert.Equal(t, "new answer", state.LatestResponse)
	// Undeclared fields stay put.
	assert.Equal(t, "John Smith", state.PatientName)
	assert.Equal(t, AgentReceptionist, state.CurrentAgent)
	assert.Equal(t, []string{"receptionist->clinical"}, state.Handoffs)
	assert.Equal(t, map[string]any{"model_used": "gemini-2.5-flash"}, state.Metadata)
}

func TestApplyAppendsHandoffAndReplacesMetadata(t *testing.T) {
	state := NewSessionState("u1", "s1", true, true)
	state.Handoffs = []string{"a->b"}
	state.Metadata = map[string]any{"old": true}

	handoff := HandoffReceptionistToClinical
	state.Apply(StateUpdate{
		Handoff:  &handoff,
		Metadata: map[string]any{"new": true},
	})

	assert.Equal(t, []string{"a->b", HandoffReceptionistToClinical}, state.Handoffs)
	assert.Equal(t, map[string]any{"new": true}, state.Metadata)
}

func TestApplyNeverTouchesHistory(t *testing.T) {
	state := NewSessionState("u1", "s1", true, true)
	state.AppendMessage(RoleUser, "hello", "", time.Now())

	response := "hi"
	state.Apply(StateUpdate{LatestResponse: &response})
	assert.Len(t, state.ConversationHistory, 1)
}

func TestCloneIsIndependent(t *testing.T) {
	state := NewSessionState("u1", "s1", true, true)
	state.PatientName = "John Smith"
	state.AppendMessage(RoleUser, "hello", "", time.Now())
	state.Handoffs = []string{"receptionist->clinical"}
	state.Metadata["rag_chunks"] = 2

	clone := state.Clone()
	clone.PatientName = "Someone Else"
	clone.AppendMessage(RoleAssistant, "hi", AgentReceptionist, time.Now())
	clone.Handoffs = append(clone.Handoffs, "x->y")
	clone.Metadata["rag_chunks"] = 5

	assert.Equal(t, "John Smith", state.PatientName)
	assert.Len(t, state.ConversationHistory, 1)
	assert.Equal(t, []string{"receptionist->clinical"}, state.Handoffs)
	assert.Equal(t, 2, state.Metadata["rag_chunks"])
}

func TestRecentHistory(t *testing.T) {
	state := NewSessionState("u1", "s1", true, true)
	for _, content := range []string{"one", "two", "three", "four"} {
		state.AppendMessage(RoleUser, content, "", time.Now())
	}

	recent := state.RecentHistory(3)
	require.Len(t, recent, 3)
	assert.Equal(t, "two", recent[0].Content)
	assert.Equal(t, "four", recent[2].Content)

	assert.Len(t, state.RecentHistory(10), 4)
	assert.Len(t, state.RecentHistory(0), 4)
}
