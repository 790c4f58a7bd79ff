package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upsertOne(t *testing.T, idx *MemoryIndex, id string, vec []float32, text, source, page string) {
	t.Helper()
	err := idx.Upsert(
		[]string{id},
		[][]float32{vec},
		[]string{text},
		[]map[string]string{{"source": source, "page": page}},
	)
	require.NoError(t, err)
}

func TestMemoryIndexSearchOrderAndThreshold(t *testing.T) {
	idx := NewMemoryIndex()

	upsertOne(t, idx, "a", []float32{1, 0, 0}, "exact", "ref.pdf", "1")
	upsertOne(t, idx, "b", []float32{0.8, 0.6, 0}, "close", "ref.pdf", "2")
	upsertOne(t, idx, "c", []float32{0, 1, 0}, "orthogonal", "ref.pdf", "3")

	results := idx.Search([]float32{1, 0, 0}, 10, 0.5)

	require.Len(t, results, 2, "below-threshold chunks must be excluded")
	assert.Equal(t, "exact", results[0].Text)
	assert.Equal(t, "close", results[1].Text)
	assert.Greater(t, results[0].Score, results[1].Score)
	assert.Equal(t, 1, results[0].Page)
}

func TestMemoryIndexSearchRespectsK(t *testing.T) {
	idx := NewMemoryIndex()
	upsertOne(t, idx, "a", []float32{1, 0}, "one", "ref.pdf", "1")
	upsertOne(t, idx, "b", []float32{0.9, 0.1}, "two", "ref.pdf", "2")
	upsertOne(t, idx, "c", []float32{0.8, 0.2}, "three", "ref.pdf", "3")

	results := idx.Search([]float32{1, 0}, 2, 0)
	assert.Len(t, results, 2)
}

func TestMemoryIndexUpsertIsIdempotent(t *testing.T) {
	idx := NewMemoryIndex()

	upsertOne(t, idx, "doc_0", []float32{1, 0}, "v1", "doc.pdf", "1")
	upsertOne(t, idx, "doc_0", []float32{0, 1}, "v2", "doc.pdf", "1")

	assert.Equal(t, 1, idx.Count())
	results := idx.Search([]float32{0, 1}, 1, 0.9)
	require.Len(t, results, 1)
	assert.Equal(t, "v2", results[0].Text)
}

func TestMemoryIndexUpsertLengthMismatch(t *testing.T) {
	idx := NewMemoryIndex()
	err := idx.Upsert([]string{"a", "b"}, [][]float32{{1}}, []string{"x"}, []map[string]string{{}})
	assert.Error(t, err)
}
