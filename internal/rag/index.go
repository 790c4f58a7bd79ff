package rag

import (
	"errors"
	"sort"
	"sync"

	"aftercare/internal/domain"
)

var errMismatchedLengths = errors.New("ids, vectors, texts and metadatas must have the same length")

// VectorIndex stores (vector, text, metadata) tuples and answers
// nearest-neighbor queries with a similarity floor.
type VectorIndex interface {
	Upsert(ids []string, vectors [][]float32, texts []string, metadatas []map[string]string) error
	Search(query []float32, k int, scoreThreshold float64) []domain.RetrievedChunk
	Count() int
}

type point struct {
	vector []float32
	text   string
	meta   map[string]string
}

// MemoryIndex is an in-process cosine-similarity index. Upserts are keyed by
// id, so re-indexing the same document overwrites instead of growing.
type MemoryIndex struct {
	mu     sync.RWMutex
	points map[string]point
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{points: make(map[string]point)}
}

func (m *MemoryIndex) Upsert(ids []string, vectors [][]float32, texts []string, metadatas []map[string]string) error {
	if len(ids) != len(vectors) || len(ids) != len(texts) || len(ids) != len(metadatas) {
		return errMismatchedLengths
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, id := range ids {
		m.points[id] = point{vector: vectors[i], text: texts[i], meta: metadatas[i]}
	}
	return nil
}

// Search returns up to k chunks with similarity >= scoreThreshold, ordered by
// descending score. Vectors are assumed normalized, so similarity is the dot
// product.
func (m *MemoryIndex) Search(query []float32, k int, scoreThreshold float64) []domain.RetrievedChunk {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []domain.RetrievedChunk
	for _, p := range m.points {
		score := dot(query, p.vector)
		if score < scoreThreshold {
			continue
		}
		results = append(results, chunkFromPoint(p, score))
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		// Deterministic order for equal scores.
		return results[i].Text < results[j].Text
	})

	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results
}

func (m *MemoryIndex) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.points)
}

func chunkFromPoint(p point, score float64) domain.RetrievedChunk {
	chunk := domain.RetrievedChunk{
		Text:     p.text,
		Source:   p.meta["source"],
		Score:    score,
		Metadata: map[string]string{},
	}
	for key, value := range p.meta {
		if key == "source" || key == "page" {
			continue
		}
		chunk.Metadata[key] = value
	}
	if pageStr, ok := p.meta["page"]; ok {
		chunk.Page = atoiSafe(pageStr)
	}
	return chunk
}

func dot(a, b []float32) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
