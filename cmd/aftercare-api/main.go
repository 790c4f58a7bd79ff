package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"aftercare/internal/adapters/llm"
	"aftercare/internal/adapters/storage/memory"
	"aftercare/internal/adapters/storage/patientfile"
	"aftercare/internal/adapters/websearch"
	"aftercare/internal/app/agentflow"
	"aftercare/internal/app/conversation"
	"aftercare/internal/app/patients"
	"aftercare/internal/config"
	"aftercare/internal/domain"
	"aftercare/internal/observability"
	"aftercare/internal/rag"

	httpadapter "aftercare/internal/adapters/http"
)

func main() {
	buildIndexPath := flag.String("build-index", "", "index a reference PDF and exit")
	flag.Parse()

	cfg := config.Load()
	observability.Configure(cfg.LogLevel)
	log := observability.Logger()

	ctx := context.Background()

	// Embeddings: Gemini when a key is configured, local hashing otherwise.
	var embedder rag.Embedder
	if cfg.HasGoogleKey() {
		gemini, err := rag.NewGeminiEmbedder(ctx, cfg.GoogleAPIKey, cfg.EmbeddingDim)
		if err != nil {
			log.Fatal("failed to initialize Gemini embedder", "error", err)
		}
		embedder = gemini
		log.Info("using Gemini embeddings", "dim", cfg.EmbeddingDim)
	} else {
		embedder = rag.NewLocalEmbedder(cfg.EmbeddingDim)
		log.Info("GOOGLE_API_KEY not set, using local embeddings", "dim", cfg.EmbeddingDim)
	}

	retriever := rag.NewRetriever(embedder, rag.NewMemoryIndex(), cfg.ChunkSize, cfg.ChunkOverlap)

	if *buildIndexPath != "" {
		count, err := retriever.BuildIndex(ctx, *buildIndexPath)
		if err != nil {
			log.Fatal("index build failed", "path", *buildIndexPath, "error", err)
		}
		log.Info("index built", "path", *buildIndexPath, "chunks", count)
		return
	}

	indexReferences(ctx, retriever, cfg.ReferencesDir)

	// Generation chain: Gemini primary, Groq fallback, stub when neither
	// key is configured.
	var primary, fallback domain.GenerationClient
	if cfg.HasGoogleKey() {
		client, err := llm.NewGeminiClient(ctx, cfg.GoogleAPIKey, cfg.PrimaryModel, cfg.Temperature, cfg.MaxOutputTokens)
		if err != nil {
			log.Fatal("failed to initialize Gemini client", "error", err)
		}
		primary = client
		log.Info("primary model ready", "model", cfg.PrimaryModel)
	} else {
		log.Warn("GOOGLE_API_KEY not set, primary model disabled")
	}
	if cfg.HasGroqKey() {
		client, err := llm.NewGroqClient(cfg.GroqAPIKey, cfg.FallbackModel, cfg.Temperature, cfg.MaxOutputTokens)
		if err != nil {
			log.Fatal("failed to initialize Groq client", "error", err)
		}
		fallback = client
		log.Info("fallback model ready", "model", cfg.FallbackModel)
	} else {
		log.Warn("GROQ_API_KEY not set, fallback model disabled")
	}
	chain := llm.NewFallbackChain(primary, fallback)

	// Patient directory from the JSON discharge records.
	directory, err := patients.NewDirectory(patientfile.NewStore(cfg.PatientsDir))
	if err != nil {
		log.Fatal("failed to load patient records", "dir", cfg.PatientsDir, "error", err)
	}
	log.Info("patient directory loaded", "dir", cfg.PatientsDir, "patients", directory.Count())

	if !cfg.HasTavilyKey() {
		log.Warn("TAVILY_API_KEY not set, web search will return stub results")
	}
	searcher := websearch.NewClient(cfg.TavilyAPIKey, cfg.WebSearchMaxResults)

	receptionist := agentflow.NewReceptionistAgent(chain, directory)
	clinical := agentflow.NewClinicalAgent(chain, retriever, searcher, cfg.RAGTopK, cfg.RAGScoreThreshold)
	orchestrator := agentflow.NewOrchestrator(receptionist, clinical)

	store := memory.NewSessionStore(cfg.SessionTTL)
	svc := conversation.NewService(store, orchestrator)

	handler := httpadapter.NewServer(svc)

	addr := ":" + cfg.Port
	log.Info("aftercare API listening", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}

// indexReferences indexes every PDF in dir. A missing directory or a bad
// file is logged and skipped; the service still starts.
func indexReferences(ctx context.Context, retriever *rag.Retriever, dir string) {
	log := observability.Logger()

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("references directory unavailable, retrieval starts empty", "dir", dir, "error", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		count, err := retriever.BuildIndex(ctx, path)
		if err != nil {
			log.Warn("skipping unreadable reference", "path", path, "error", err)
			continue
		}
		log.Info("reference indexed", "path", path, "chunks", count)
	}
}
