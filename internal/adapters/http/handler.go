package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"aftercare/internal/app/conversation"
	"aftercare/internal/domain"
)

type Server struct {
	svc *conversation.Service
}

func NewServer(svc *conversation.Service) http.Handler {
	s := &Server{svc: svc}
	mux := http.NewServeMux()

	// /chat → POST: run one conversation turn
	mux.HandleFunc("/chat", s.handleChat)

	// /health → GET: liveness probe
	mux.HandleFunc("/health", s.handleHealth)

	// /sessions/count    →  GET: active session count
	// /sessions/{id}     →  DELETE: drop a session
	mux.HandleFunc("/sessions/", s.handleSessionWithID)

	return chainMiddlewares(mux, withLogging, withRequestID, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatRequest struct {
	UserID           string `json:"user_id"`
	SessionID        string `json:"session_id"`
	Message          string `json:"message"`
	RAGEnabled       *bool  `json:"rag_enabled,omitempty"`
	WebSearchEnabled *bool  `json:"web_search_enabled,omitempty"`
}

type sessionCountResponse struct {
	ActiveSessions int `json:"active_sessions"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if req.UserID == "" {
		badRequest(w, "user_id is required")
		return
	}
	if req.SessionID == "" {
		badRequest(w, "session_id is required")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		badRequest(w, "message is required")
		return
	}

	out := s.svc.ProcessTurn(r.Context(), conversation.TurnInput{
		UserID:           domain.UserID(req.UserID),
		SessionID:        domain.SessionID(req.SessionID),
		Message:          req.Message,
		RAGEnabled:       boolOrDefault(req.RAGEnabled, true),
		WebSearchEnabled: boolOrDefault(req.WebSearchEnabled, true),
	})

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// /sessions/count or /sessions/{id}
func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if path == "" || strings.Contains(path, "/") {
		http.NotFound(w, r)
		return
	}

	if path == "count" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		writeJSON(w, http.StatusOK, sessionCountResponse{ActiveSessions: s.svc.ActiveSessions()})
		return
	}

	switch r.Method {
	case http.MethodDelete:
		s.svc.ClearSession(domain.SessionID(path))
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared", "session_id": path})
	default:
		methodNotAllowed(w)
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
