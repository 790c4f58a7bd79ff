package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string
	LogLevel string

	// API keys are optional: every backend degrades to a stub without one.
	GoogleAPIKey string
	GroqAPIKey   string
	TavilyAPIKey string

	PrimaryModel    string
	FallbackModel   string
	Temperature     float32
	MaxOutputTokens int

	PatientsDir   string
	ReferencesDir string

	ChunkSize         int
	ChunkOverlap      int
	RAGTopK           int
	RAGScoreThreshold float64
	EmbeddingDim      int

	WebSearchMaxResults int

	SessionTTL time.Duration
}

// Load reads an optional .env file, then env vars with the AFTERCARE_ prefix
// (provider API keys keep their conventional unprefixed names) and builds
// the config.
func Load() *Config {
	// A missing .env is fine; plain env vars still apply.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("AFTERCARE")
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("primary_model", "gemini-2.5-flash")
	v.SetDefault("fallback_model", "llama-3.1-8b-instant")
	v.SetDefault("temperature", 0.7)
	v.SetDefault("max_output_tokens", 10000)
	v.SetDefault("patients_dir", "data/patients")
	v.SetDefault("references_dir", "data/references")
	v.SetDefault("chunk_size", 512)
	v.SetDefault("chunk_overlap", 150)
	v.SetDefault("rag_top_k", 5)
	v.SetDefault("rag_score_threshold", 0.3)
	v.SetDefault("embedding_dim", 384)
	v.SetDefault("web_search_max_results", 5)
	v.SetDefault("session_ttl_minutes", 60)

	// Provider keys are read without the prefix.
	keys := viper.New()
	keys.AutomaticEnv()

	return &Config{
		Port:     v.GetString("port"),
		LogLevel: v.GetString("log_level"),

		GoogleAPIKey: keys.GetString("GOOGLE_API_KEY"),
		GroqAPIKey:   keys.GetString("GROQ_API_KEY"),
		TavilyAPIKey: keys.GetString("TAVILY_API_KEY"),

		PrimaryModel:    v.GetString("primary_model"),
		FallbackModel:   v.GetString("fallback_model"),
		Temperature:     float32(v.GetFloat64("temperature")),
		MaxOutputTokens: v.GetInt("max_output_tokens"),

		PatientsDir:   v.GetString("patients_dir"),
		ReferencesDir: v.GetString("references_dir"),

		ChunkSize:         v.GetInt("chunk_size"),
		ChunkOverlap:      v.GetInt("chunk_overlap"),
		RAGTopK:           v.GetInt("rag_top_k"),
		RAGScoreThreshold: v.GetFloat64("rag_score_threshold"),
		EmbeddingDim:      v.GetInt("embedding_dim"),

		WebSearchMaxResults: v.GetInt("web_search_max_results"),

		SessionTTL: time.Duration(v.GetInt("session_ttl_minutes")) * time.Minute,
	}
}

func (c *Config) HasGoogleKey() bool { return c.GoogleAPIKey != "" }
func (c *Config) HasGroqKey() bool   { return c.GroqAPIKey != "" }
func (c *Config) HasTavilyKey() bool { return c.TavilyAPIKey != "" }
