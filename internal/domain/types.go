package domain

type SessionID string
type UserID string

// AgentName identifies which agent produced a message or owns a turn.
type AgentName string

const (
	AgentReceptionist AgentName = "receptionist"
	AgentClinical     AgentName = "clinical"

	// AgentError is a sentinel reported when a turn fails unexpectedly.
	AgentError AgentName = "error"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// HandoffReceptionistToClinical is the trace entry appended when the
// receptionist routes a clinical query.
const HandoffReceptionistToClinical = "receptionist->clinical"
