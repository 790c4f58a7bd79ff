package domain

// RetrievedChunk is a scored piece of reference text produced by a retrieval
// call. Chunks are transient; only the citations derived from them travel
// further.
type RetrievedChunk struct {
	Text     string
	Source   string // document id, e.g. a PDF filename
	Page     int    // 1-based; 0 when unknown
	Score    float64
	Metadata map[string]string
}

// SourceType tags where a citation came from.
type SourceType string

const (
	SourceReference SourceType = "reference"
	SourceWeb       SourceType = "web"
	SourceWebStub   SourceType = "web_stub"
)

// Citation is a structured reference attached to a generated answer.
// Identity for deduplication is (SourceType, ReferenceID, Page, URL);
// Score and Snippet are informational only.
type Citation struct {
	SourceType  SourceType `json:"source_type"`
	ReferenceID string     `json:"reference_id,omitempty"`
	Page        int        `json:"page,omitempty"`
	URL         string     `json:"url,omitempty"`
	Score       float64    `json:"score,omitempty"`
	Snippet     string     `json:"snippet,omitempty"`
}

// StructuredAnswer is the unit returned by a generation client's structured
// call: the answer text plus whatever citations the model emitted.
type StructuredAnswer struct {
	Answer     string     `json:"answer"`
	Citations  []Citation `json:"citations"`
	ModelUsed  string     `json:"model_used"`
	Disclaimer string     `json:"disclaimer"`
}

// WebSearchResult is one hit from the external evidence source.
type WebSearchResult struct {
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	Snippet    string     `json:"snippet"`
	SourceType SourceType `json:"source_type"`
}

// WebSearchResponse wraps web results. IsStub is true when the backend was
// unavailable and the single deterministic placeholder result was returned.
type WebSearchResponse struct {
	Results []WebSearchResult
	Query   string
	IsStub  bool
}
