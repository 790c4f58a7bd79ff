package rag

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"aftercare/internal/domain"
	"aftercare/internal/observability"
)

// chunkIDNamespace makes chunk ids deterministic: the same document chunked
// the same way always produces the same UUIDv5 set, so re-indexing
// overwrites instead of duplicating.
var chunkIDNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// PageContent is one page of extracted document text.
type PageContent struct {
	Text string
	Page int
}

// Retriever orchestrates embedding, vector search and citation construction
// over the indexed reference documents.
type Retriever struct {
	embedder     Embedder
	index        VectorIndex
	chunkSize    int
	chunkOverlap int
}

func NewRetriever(embedder Embedder, index VectorIndex, chunkSize, chunkOverlap int) *Retriever {
	return &Retriever{
		embedder:     embedder,
		index:        index,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// BuildIndex extracts per-page text from a PDF, chunks and embeds it, and
// upserts the chunks into the vector index under deterministic ids.
func (r *Retriever) BuildIndex(ctx context.Context, pdfPath string) (int, error) {
	log := observability.Logger().With("document", filepath.Base(pdfPath))
	log.Info("building index")

	pages, err := extractPDFPages(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("extracting text from %s: %w", pdfPath, err)
	}

	count, err := r.IndexPages(ctx, filepath.Base(pdfPath), pages)
	if err != nil {
		return 0, err
	}
	log.Info("index built", "chunks", count, "total_vectors", r.index.Count())
	return count, nil
}

// IndexPages chunks, embeds and upserts already-extracted page text. Chunk
// ids derive from the source's stem and the chunk ordinal, so indexing the
// same pages twice overwrites the same entries.
func (r *Retriever) IndexPages(ctx context.Context, source string, pages []PageContent) (int, error) {
	stem := strings.TrimSuffix(source, filepath.Ext(source))

	var texts []string
	var metadatas []map[string]string
	for _, p := range pages {
		for _, chunk := range ChunkText(p.Text, r.chunkSize, r.chunkOverlap) {
			texts = append(texts, chunk)
			metadatas = append(metadatas, map[string]string{
				"source": source,
				"page":   strconv.Itoa(p.Page),
			})
		}
	}
	if len(texts) == 0 {
		return 0, fmt.Errorf("no extractable text in %s", source)
	}

	vectors, err := r.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding chunks: %w", err)
	}

	ids := make([]string, len(texts))
	for i := range texts {
		ids[i] = ChunkID(stem, i)
	}

	if err := r.index.Upsert(ids, vectors, texts, metadatas); err != nil {
		return 0, fmt.Errorf("upserting chunks: %w", err)
	}
	return len(texts), nil
}

// ChunkID derives the deterministic id for a document chunk.
func ChunkID(documentStem string, ordinal int) string {
	return uuid.NewSHA1(chunkIDNamespace, []byte(fmt.Sprintf("%s_%d", documentStem, ordinal))).String()
}

// Retrieve returns up to k chunks scoring at or above scoreThreshold,
// ordered by descending similarity. Any failure degrades to an empty list.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int, scoreThreshold float64) []domain.RetrievedChunk {
	if query == "" {
		return nil
	}

	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("query embedding failed", "error", err)
		return nil
	}

	chunks := r.index.Search(vector, k, scoreThreshold)
	observability.LoggerFromContext(ctx).Info("retrieved chunks", "count", len(chunks), "k", k)
	return chunks
}

// RetrieveWithCitations retrieves chunks and derives one reference citation
// per chunk.
func (r *Retriever) RetrieveWithCitations(ctx context.Context, query string, k int, scoreThreshold float64) ([]domain.RetrievedChunk, []domain.Citation) {
	chunks := r.Retrieve(ctx, query, k, scoreThreshold)
	return chunks, ChunksToCitations(chunks)
}

// FormatContext renders retrieved chunks as LLM context.
func (r *Retriever) FormatContext(chunks []domain.RetrievedChunk) string {
	if len(chunks) == 0 {
		return "No relevant information found in references."
	}

	var parts []string
	for i, chunk := range chunks {
		pageInfo := ""
		if chunk.Page > 0 {
			pageInfo = fmt.Sprintf(" (page %d)", chunk.Page)
		}
		parts = append(parts, fmt.Sprintf("[Reference %d%s]:\n%s\n", i+1, pageInfo, chunk.Text))
	}
	return strings.Join(parts, "\n")
}

// Count reports how many vectors are currently indexed.
func (r *Retriever) Count() int {
	return r.index.Count()
}

func extractPDFPages(path string) ([]PageContent, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer file.Close()

	var pages []PageContent
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			observability.Logger().Warn("skipping unreadable pdf page", "page", i, "error", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, PageContent{Text: text, Page: i})
	}
	return pages, nil
}
