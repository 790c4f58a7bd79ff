package rag

import (
	"fmt"
	"strings"

	"aftercare/internal/domain"
)

const snippetLimit = 200

// ChunksToCitations converts retrieved chunks into reference citations with
// truncated snippets.
func ChunksToCitations(chunks []domain.RetrievedChunk) []domain.Citation {
	citations := make([]domain.Citation, 0, len(chunks))
	for _, chunk := range chunks {
		citations = append(citations, domain.Citation{
			SourceType:  domain.SourceReference,
			ReferenceID: chunk.Source,
			Page:        chunk.Page,
			Score:       chunk.Score,
			Snippet:     Snippet(chunk.Text),
		})
	}
	return citations
}

// Snippet truncates text to the citation snippet limit, ellipsis-suffixed.
func Snippet(text string) string {
	if len(text) <= snippetLimit {
		return text
	}
	return text[:snippetLimit] + "..."
}

// DeduplicateCitations removes citations sharing the same identity
// (source_type, reference_id, page, url), keeping first occurrences in
// order. Score and snippet are not part of the identity.
func DeduplicateCitations(citations []domain.Citation) []domain.Citation {
	type key struct {
		sourceType  domain.SourceType
		referenceID string
		page        int
		url         string
	}

	seen := make(map[key]bool, len(citations))
	unique := make([]domain.Citation, 0, len(citations))
	for _, c := range citations {
		k := key{c.SourceType, c.ReferenceID, c.Page, c.URL}
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, c)
	}
	return unique
}

// FormatCitationList renders citations as the trailing source list of an
// answer.
func FormatCitationList(citations []domain.Citation) string {
	if len(citations) == 0 {
		return "No sources cited."
	}

	lines := []string{"Sources:"}
	for _, c := range citations {
		switch c.SourceType {
		case domain.SourceReference:
			source := c.ReferenceID
			if source == "" {
				source = "Reference"
			}
			line := "• " + source
			if c.Page > 0 {
				line += fmt.Sprintf(", page %d", c.Page)
			}
			if c.Score > 0 {
				line += fmt.Sprintf(" (relevance: %.2f)", c.Score)
			}
			lines = append(lines, line)
		case domain.SourceWeb:
			url := c.URL
			if url == "" {
				url = "N/A"
			}
			lines = append(lines, "• Web: "+url)
		case domain.SourceWebStub:
			lines = append(lines, "• Web search unavailable (API key not configured)")
		}
	}
	return strings.Join(lines, "\n")
}

// FormatInlineCitation renders a citation for inline use, e.g. "[Ref p.14]".
func FormatInlineCitation(c domain.Citation, index int) string {
	switch c.SourceType {
	case domain.SourceReference:
		if c.Page > 0 {
			return fmt.Sprintf("[Ref p.%d]", c.Page)
		}
		if c.ReferenceID != "" {
			return fmt.Sprintf("[Ref: %s]", c.ReferenceID)
		}
		return fmt.Sprintf("[Ref %d]", index)
	case domain.SourceWeb:
		return "(Web Source)"
	case domain.SourceWebStub:
		return "(Web Search Unavailable)"
	}
	return fmt.Sprintf("[Source %d]", index)
}
