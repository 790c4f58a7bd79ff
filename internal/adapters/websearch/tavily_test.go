package websearch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aftercare/internal/domain"
)

func TestSearchWithoutKeyReturnsStubDeterministically(t *testing.T) {
	c := NewClient("", 5)

	first := c.Search(context.Background(), "latest CKD guidelines")
	second := c.Search(context.Background(), "latest CKD guidelines")

	assert.True(t, first.IsStub)
	assert.Equal(t, first, second)
	require.Len(t, first.Results, 1)
	assert.Equal(t, domain.SourceWebStub, first.Results[0].SourceType)
	assert.Contains(t, first.Results[0].Snippet, "latest CKD guidelines")
}

func TestIsTimeSensitive(t *testing.T) {
	cases := map[string]bool{
		"What are the latest CKD guidelines?":    true,
		"current treatment recommendation":       true,
		"new dialysis protocol from 2025":        true,
		"What is the standard of care for AKI?":  true,
		"How do my kidneys filter blood?":        false,
		"Tell me about my discharge medications": false,
		"":                                       false,
	}
	for query, expected := range cases {
		assert.Equal(t, expected, IsTimeSensitive(query), "query: %q", query)
	}
}

func TestFormatResults(t *testing.T) {
	stub := StubResponse("ckd staging")
	assert.Contains(t, FormatResults(stub), "Web search unavailable:")

	empty := domain.WebSearchResponse{Query: "ckd staging"}
	assert.Equal(t, "No web results found for query: ckd staging", FormatResults(empty))

	full := domain.WebSearchResponse{
		Query: "ckd staging",
		Results: []domain.WebSearchResult{
			{Title: "KDIGO 2024", URL: "https://kdigo.org", Snippet: "Updated staging...", SourceType: domain.SourceWeb},
		},
	}
	out := FormatResults(full)
	assert.Contains(t, out, "[Web Result 1]:")
	assert.Contains(t, out, "https://kdigo.org")
}
