package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aftercare/internal/adapters/llm"
	"aftercare/internal/adapters/storage/memory"
	"aftercare/internal/adapters/websearch"
	"aftercare/internal/app/agentflow"
	"aftercare/internal/app/conversation"
	"aftercare/internal/domain"
)

type noopDirectory struct{}

func (noopDirectory) Lookup(string) domain.PatientLookupResult {
	return domain.PatientLookupResult{
		Found:     false,
		Message:   domain.MsgPatientNotFound,
		ErrorKind: domain.LookupNotFound,
	}
}

type noopRetriever struct{}

func (noopRetriever) Retrieve(context.Context, string, int, float64) []domain.RetrievedChunk {
	return nil
}

func (noopRetriever) RetrieveWithCitations(context.Context, string, int, float64) ([]domain.RetrievedChunk, []domain.Citation) {
	return nil, nil
}

func (noopRetriever) FormatContext([]domain.RetrievedChunk) string { return "" }

type stubOnlySearcher struct{}

func (stubOnlySearcher) Search(_ context.Context, query string) domain.WebSearchResponse {
	return websearch.StubResponse(query)
}

func newTestHandler() http.Handler {
	generator := llm.NewMock("gemini")
	receptionist := agentflow.NewReceptionistAgent(generator, noopDirectory{})
	clinical := agentflow.NewClinicalAgent(generator, noopRetriever{}, stubOnlySearcher{}, 5, 0.3)
	orch := agentflow.NewOrchestrator(receptionist, clinical)
	svc := conversation.NewService(memory.NewSessionStore(60*time.Minute), orch)
	return NewServer(svc)
}

func postChat(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestChatTurn(t *testing.T) {
	handler := newTestHandler()

	rec := postChat(t, handler, `{"user_id":"u1","session_id":"s1","message":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var out conversation.TurnOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, domain.AgentReceptionist, out.Agent)
	assert.NotEmpty(t, out.Answer)
	assert.False(t, out.PatientFound)
}

func TestChatValidation(t *testing.T) {
	handler := newTestHandler()

	tests := []struct {
		name string
		body string
	}{
		{"missing user_id", `{"session_id":"s1","message":"hi"}`},
		{"missing session_id", `{"user_id":"u1","message":"hi"}`},
		{"blank message", `{"user_id":"u1","session_id":"s1","message":"   "}`},
		{"malformed JSON", `{`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := postChat(t, handler, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestChatMethodNotAllowed(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSessionCountAndClear(t *testing.T) {
	handler := newTestHandler()

	postChat(t, handler, `{"user_id":"u1","session_id":"s1","message":"hello"}`)
	postChat(t, handler, `{"user_id":"u2","session_id":"s2","message":"hello"}`)

	req := httptest.NewRequest(http.MethodGet, "/sessions/count", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var count sessionCountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &count))
	assert.Equal(t, 2, count.ActiveSessions)

	req = httptest.NewRequest(http.MethodDelete, "/sessions/s1", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/sessions/count", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &count))
	assert.Equal(t, 1, count.ActiveSessions)
}

func TestRequestIDPropagation(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
