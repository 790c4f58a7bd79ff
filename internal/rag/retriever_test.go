package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aftercare/internal/domain"
)

func newTestRetriever() *Retriever {
	return NewRetriever(NewLocalEmbedder(64), NewMemoryIndex(), 512, 150)
}

func indexTestPages(t *testing.T, r *Retriever) {
	t.Helper()
	_, err := r.IndexPages(context.Background(), "nephrology.pdf", []PageContent{
		{Page: 1, Text: "Chronic kidney disease is a progressive loss of kidney function over months or years."},
		{Page: 2, Text: "Dialysis replaces kidney function by filtering waste products from the blood."},
		{Page: 3, Text: "Dietary sodium restriction supports blood pressure control in renal patients."},
	})
	require.NoError(t, err)
}

func TestRetrieveReturnsRelevantChunks(t *testing.T) {
	r := newTestRetriever()
	indexTestPages(t, r)

	chunks := r.Retrieve(context.Background(), "kidney disease progression", 5, 0.05)
	require.NotEmpty(t, chunks)
	assert.Contains(t, chunks[0].Text, "kidney")
	assert.Equal(t, "nephrology.pdf", chunks[0].Source)

	for i := 1; i < len(chunks); i++ {
		assert.GreaterOrEqual(t, chunks[i-1].Score, chunks[i].Score)
	}
}

func TestRetrieveEmptyQuery(t *testing.T) {
	r := newTestRetriever()
	indexTestPages(t, r)
	assert.Nil(t, r.Retrieve(context.Background(), "", 5, 0))
}

func TestRetrieveWithCitationsSnippets(t *testing.T) {
	r := newTestRetriever()
	long := strings.Repeat("dialysis treatment schedules and vascular access care. ", 10)
	_, err := r.IndexPages(context.Background(), "guide.pdf", []PageContent{{Page: 4, Text: long}})
	require.NoError(t, err)

	chunks, citations := r.RetrieveWithCitations(context.Background(), "dialysis vascular access", 3, 0.05)
	require.NotEmpty(t, chunks)
	require.Len(t, citations, len(chunks))

	c := citations[0]
	assert.Equal(t, domain.SourceReference, c.SourceType)
	assert.Equal(t, "guide.pdf", c.ReferenceID)
	assert.Equal(t, 4, c.Page)
	assert.LessOrEqual(t, len(c.Snippet), 203)
	assert.True(t, strings.HasSuffix(c.Snippet, "..."))
}

func TestIndexPagesIsIdempotent(t *testing.T) {
	r := newTestRetriever()

	indexTestPages(t, r)
	first := r.Count()

	indexTestPages(t, r)
	assert.Equal(t, first, r.Count(), "re-indexing must overwrite, not grow")
}

func TestChunkIDDeterministic(t *testing.T) {
	assert.Equal(t, ChunkID("nephrology", 3), ChunkID("nephrology", 3))
	assert.NotEqual(t, ChunkID("nephrology", 3), ChunkID("nephrology", 4))
	assert.NotEqual(t, ChunkID("nephrology", 3), ChunkID("cardiology", 3))
}

type failingEmbedder struct{}

func (failingEmbedder) EmbedTexts(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("embedder down")
}
func (failingEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return nil, errors.New("embedder down")
}
func (failingEmbedder) Dimension() int { return 64 }

func TestRetrieveFailureDegradesToEmpty(t *testing.T) {
	r := NewRetriever(failingEmbedder{}, NewMemoryIndex(), 512, 150)
	assert.Empty(t, r.Retrieve(context.Background(), "anything", 5, 0))
}

func TestFormatContext(t *testing.T) {
	r := newTestRetriever()

	assert.Equal(t, "No relevant information found in references.", r.FormatContext(nil))

	out := r.FormatContext([]domain.RetrievedChunk{
		{Text: "chunk one", Page: 2},
		{Text: "chunk two"},
	})
	assert.Contains(t, out, "[Reference 1 (page 2)]:\nchunk one")
	assert.Contains(t, out, "[Reference 2]:\nchunk two")
}
