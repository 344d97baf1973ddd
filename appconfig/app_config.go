package appconfig

import (
	"github.com/SaiNageswarS/course-rag/chunker"
	"github.com/SaiNageswarS/go-api-boot/config"
)

type AppConfig struct {
	config.BootConfig `ini:",extends"`

	LLMProvider string `env:"LLM-PROVIDER" ini:"llm_provider"`
	LLMModel    string `env:"LLM-MODEL" ini:"llm_model"`
	MaxTokens   int    `ini:"max_tokens"`
	// Temperature is passed through as is; zero keeps answers deterministic.
	Temperature float64 `ini:"temperature"`

	EmbeddingProvider string `env:"EMBEDDING-PROVIDER" ini:"embedding_provider"`
	EmbeddingModel    string `env:"EMBEDDING-MODEL" ini:"embedding_model"`
	EmbeddingBaseURL  string `env:"EMBEDDING-BASE-URL" ini:"embedding_base_url"`
	EmbeddingAPIKey   string `env:"EMBEDDING-API-KEY" ini:"embedding_api_key"`

	ChunkSize       int     `ini:"chunk_size"`
	ChunkOverlap    int     `ini:"chunk_overlap"`
	MaxResults      int     `ini:"max_results"`
	MinResolveScore float64 `ini:"min_resolve_score"`

	MaxHistory        int `ini:"max_history"`
	SessionTTLMinutes int `ini:"session_ttl_minutes"`

	DocsPath    string `env:"DOCS-PATH" ini:"docs_path"`
	ForceReload bool   `ini:"force_reload"`
}

// ApplyDefaults fills unset values.
func (c *AppConfig) ApplyDefaults() {
	if c.LLMProvider == "" {
		c.LLMProvider = "anthropic"
	}
	if c.LLMModel == "" {
		c.LLMModel = "claude-sonnet-4-20250514"
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 800
	}
	if c.EmbeddingProvider == "" {
		c.EmbeddingProvider = "hash"
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = chunker.DefaultChunkSize
	}
	if c.ChunkOverlap <= 0 {
		c.ChunkOverlap = chunker.DefaultChunkOverlap
	}
	if c.MaxResults <= 0 {
		c.MaxResults = 5
	}
	if c.MaxHistory <= 0 {
		c.MaxHistory = 2
	}
	if c.DocsPath == "" {
		c.DocsPath = "docs"
	}
}
