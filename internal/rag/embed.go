package rag

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"google.golang.org/genai"

	"aftercare/internal/observability"
)

// Embedder converts text to fixed-dimension vectors. Vectors are normalized
// so the index can use a plain dot product as cosine similarity.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
	Dimension() int
}

// ---------------------------------------------------------------------------
// Local embedder
// ---------------------------------------------------------------------------

// LocalEmbedder is a deterministic hashed bag-of-words embedder. It is the
// offline default: no credentials, no network, stable vectors across runs,
// which also keeps index ids idempotent in tests.
type LocalEmbedder struct {
	dim int
}

func NewLocalEmbedder(dim int) *LocalEmbedder {
	if dim <= 0 {
		dim = 384
	}
	return &LocalEmbedder{dim: dim}
}

func (e *LocalEmbedder) Dimension() int { return e.dim }

func (e *LocalEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = e.embed(text)
	}
	return vectors, nil
}

func (e *LocalEmbedder) EmbedQuery(_ context.Context, query string) ([]float32, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	return e.embed(query), nil
}

func (e *LocalEmbedder) embed(text string) []float32 {
	vec := make([]float32, e.dim)
	tokens := tokenize(text)
	for i, token := range tokens {
		vec[bucket(token, e.dim)]++
		// Bigrams keep a little word order in the signal.
		if i+1 < len(tokens) {
			vec[bucket(token+" "+tokens[i+1], e.dim)]++
		}
	}
	normalize(vec)
	return vec
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func bucket(token string, dim int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	return int(h.Sum32() % uint32(dim))
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}

// ---------------------------------------------------------------------------
// Gemini embedder
// ---------------------------------------------------------------------------

const geminiEmbeddingModel = "gemini-embedding-001"

// GeminiEmbedder embeds through the Gemini embedding API. Used when a Google
// API key is configured.
type GeminiEmbedder struct {
	client *genai.Client
	dim    int
}

func NewGeminiEmbedder(ctx context.Context, apiKey string, dim int) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google api key not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	observability.Logger().Info("initialized gemini embedder", "model", geminiEmbeddingModel, "dim", dim)
	return &GeminiEmbedder{client: client, dim: dim}, nil
}

func (e *GeminiEmbedder) Dimension() int { return e.dim }

func (e *GeminiEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	dim := int32(e.dim)
	res, err := e.client.Models.EmbedContent(ctx, geminiEmbeddingModel, contents, &genai.EmbedContentConfig{
		OutputDimensionality: &dim,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini embed content: %w", err)
	}
	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini returned %d embeddings for %d texts", len(res.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range res.Embeddings {
		vec := make([]float32, len(emb.Values))
		copy(vec, emb.Values)
		normalize(vec)
		vectors[i] = vec
	}
	return vectors, nil
}

func (e *GeminiEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	vectors, err := e.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}
