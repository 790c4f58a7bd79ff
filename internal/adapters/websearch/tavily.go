package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"aftercare/internal/domain"
	"aftercare/internal/observability"
)

const (
	tavilyEndpoint = "https://api.tavily.com/search"
	searchTimeout  = 15 * time.Second
)

// Client searches the web through the Tavily API. Missing credentials or any
// failure yield the deterministic stub response instead of an error, so the
// clinical agent can always proceed.
type Client struct {
	apiKey     string
	maxResults int
	httpClient *http.Client
}

func NewClient(apiKey string, maxResults int) *Client {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Client{
		apiKey:     apiKey,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: searchTimeout},
	}
}

type searchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

func (c *Client) Search(ctx context.Context, query string) domain.WebSearchResponse {
	log := observability.LoggerFromContext(ctx).With("tool", "web_search")

	if c.apiKey == "" {
		log.Warn("tavily api key not configured, returning stub response")
		return StubResponse(query)
	}

	body, err := json.Marshal(searchRequest{
		APIKey:      c.apiKey,
		Query:       query,
		MaxResults:  c.maxResults,
		SearchDepth: "basic",
	})
	if err != nil {
		log.Error("encoding search request failed", "error", err)
		return StubResponse(query)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyEndpoint, bytes.NewReader(body))
	if err != nil {
		log.Error("building search request failed", "error", err)
		return StubResponse(query)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("web search failed", "error", err)
		return StubResponse(query)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("web search returned non-200", "status", resp.StatusCode)
		return StubResponse(query)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Error("decoding search response failed", "error", err)
		return StubResponse(query)
	}

	results := make([]domain.WebSearchResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, domain.WebSearchResult{
			Title:      r.Title,
			URL:        r.URL,
			Snippet:    r.Content,
			SourceType: domain.SourceWeb,
		})
	}

	log.Info("web search completed", "results", len(results))
	return domain.WebSearchResponse{Results: results, Query: query, IsStub: false}
}

// StubResponse is the deterministic placeholder used whenever the backend is
// unavailable.
func StubResponse(query string) domain.WebSearchResponse {
	return domain.WebSearchResponse{
		Results: []domain.WebSearchResult{{
			Title: "Web Search Unavailable",
			URL:   "",
			Snippet: fmt.Sprintf(
				"Web search for '%s' could not be completed. The Tavily API key is not configured. "+
					"To enable real-time web search, please add your TAVILY_API_KEY to the .env file. "+
					"For now, please consult your healthcare provider or reliable medical websites for current information on this topic.",
				query),
			SourceType: domain.SourceWebStub,
		}},
		Query:  query,
		IsStub: true,
	}
}

// FormatResults renders a web search response as LLM context.
func FormatResults(response domain.WebSearchResponse) string {
	if response.IsStub {
		return "Web search unavailable: " + response.Results[0].Snippet
	}
	if len(response.Results) == 0 {
		return "No web results found for query: " + response.Query
	}

	out := fmt.Sprintf("Web search results for: %s\n", response.Query)
	for i, r := range response.Results {
		out += fmt.Sprintf("\n[Web Result %d]:\nTitle: %s\nURL: %s\nContent: %s\n", i+1, r.Title, r.URL, r.Snippet)
	}
	return out
}
