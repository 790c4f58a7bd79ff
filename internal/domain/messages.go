package domain

// User-facing text shared between agents and the orchestrator. The wording is
// part of the product behavior, so tests pin it.
const (
	HandoffNotice = "This sounds like a medical concern. Let me connect you with our Clinical AI Agent."

	MsgPatientNotFound  = "I couldn't find a patient with that name in our system. Could you please verify the spelling?"
	MsgMultipleMatches  = "I found multiple patients with similar names. Could you provide your full name?"
	MsgLLMUnavailable   = "I'm having trouble connecting to my knowledge base right now. Please try again shortly."
	MsgTurnError        = "I encountered an error processing your request. Please try again."
	MedicalDisclaimer   = "This assistant is for educational purposes only. Always consult a licensed medical professional."
	StubModelIdentifier = "stub_unavailable"
)
