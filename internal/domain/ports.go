package domain

import "context"

// GenerationClient is the contract both text generators implement, and the
// contract of the primary->fallback chain itself. Implementations must not
// attempt network I/O when their credentials are absent.
type GenerationClient interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	GenerateStructured(ctx context.Context, systemPrompt, userPrompt string) (StructuredAnswer, error)
	ModelName() string
}

// Retriever answers queries against the indexed reference documents.
// Retrieval failures degrade to empty results, never errors.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int, scoreThreshold float64) []RetrievedChunk
	RetrieveWithCitations(ctx context.Context, query string, k int, scoreThreshold float64) ([]RetrievedChunk, []Citation)
	FormatContext(chunks []RetrievedChunk) string
}

// WebSearcher is the external evidence source. It never returns an error:
// missing credentials or a failed call yield the deterministic stub response.
type WebSearcher interface {
	Search(ctx context.Context, query string) WebSearchResponse
}

// PatientDirectory resolves a patient name to a discharge record.
type PatientDirectory interface {
	Lookup(name string) PatientLookupResult
}

// SessionStore is the keyed, TTL-expiring cache of per-conversation state.
// Get treats an expired entry as absent and evicts it. Save replaces the
// whole state and refreshes the entry's timestamp.
type SessionStore interface {
	Get(id SessionID) (*SessionState, bool)
	Save(id SessionID, state *SessionState)
	Clear(id SessionID)
	Sweep() int
	CountActive() int
}
