package domain

import "time"

// ConversationMessage is one entry in a session's history. Messages are
// immutable once appended; Agent is set only on assistant messages.
type ConversationMessage struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Agent     AgentName `json:"agent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionState is the per-conversation state carried across turns. The
// conversation history and handoff trace are append-only; CurrentAgent always
// names a known agent.
type SessionState struct {
	UserID              UserID
	SessionID           SessionID
	PatientName         string
	PatientRecord       *PatientRecord
	ConversationHistory []ConversationMessage
	LatestQuery         string
	LatestResponse      string
	CurrentAgent        AgentName
	Handoffs            []string
	RAGEnabled          bool
	WebSearchEnabled    bool
	Metadata            map[string]any
}

// NewSessionState builds the state for a session's first turn.
func NewSessionState(userID UserID, sessionID SessionID, ragEnabled, webSearchEnabled bool) *SessionState {
	return &SessionState{
		UserID:           userID,
		SessionID:        sessionID,
		CurrentAgent:     AgentReceptionist,
		RAGEnabled:       ragEnabled,
		WebSearchEnabled: webSearchEnabled,
		Metadata:         map[string]any{},
	}
}

// AppendMessage adds a message to the conversation history.
func (s *SessionState) AppendMessage(role Role, content string, agent AgentName, at time.Time) {
	s.ConversationHistory = append(s.ConversationHistory, ConversationMessage{
		Role:      role,
		Content:   content,
		Agent:     agent,
		Timestamp: at,
	})
}

// RecentHistory returns up to the last n messages.
func (s *SessionState) RecentHistory(n int) []ConversationMessage {
	if n <= 0 || len(s.ConversationHistory) <= n {
		return s.ConversationHistory
	}
	return s.ConversationHistory[len(s.ConversationHistory)-n:]
}

// Clone returns a copy of s that is safe to mutate independently.
// The patient record is shared: records are read-only once loaded.
func (s *SessionState) Clone() *SessionState {
	c := *s
	c.ConversationHistory = append([]ConversationMessage(nil), s.ConversationHistory...)
	c.Handoffs = append([]string(nil), s.Handoffs...)
	c.Metadata = make(map[string]any, len(s.Metadata))
	for k, v := range s.Metadata {
		c.Metadata[k] = v
	}
	return &c
}

// StateUpdate is the typed partial update an agent returns from one turn.
// Nil fields are not applied; the orchestrator merges only what an agent
// declared and leaves everything else untouched.
type StateUpdate struct {
	PatientName    *string
	PatientRecord  *PatientRecord
	LatestResponse *string
	CurrentAgent   *AgentName
	Handoff        *string        // appended to the handoff trace
	Metadata       map[string]any // replaces per-turn diagnostics when non-nil
}

// Apply merges the declared fields of u into s. The conversation history is
// never touched here: message appends stay with the orchestrator.
func (s *SessionState) Apply(u StateUpdate) {
	if u.PatientName != nil {
		s.PatientName = *u.PatientName
	}
	if u.PatientRecord != nil {
		s.PatientRecord = u.PatientRecord
	}
	if u.LatestResponse != nil {
		s.LatestResponse = *u.LatestResponse
	}
	if u.CurrentAgent != nil {
		s.CurrentAgent = *u.CurrentAgent
	}
	if u.Handoff != nil {
		s.Handoffs = append(s.Handoffs, *u.Handoff)
	}
	if u.Metadata != nil {
		s.Metadata = u.Metadata
	}
}
