// Package config centralizes environment configuration. Values are read once
// at startup and passed into constructors explicitly, so tests can inject
// fake directories and keys.
package config

import (
	"errors"
	"os"
	"strconv"
)

// ErrMissingAPIKey is returned when the required LLM API key is absent.
// Startup must fail immediately rather than deferring to the first question.
var ErrMissingAPIKey = errors.New("GROQ_API_KEY is not set")

// Defaults for everything that is not the one required secret.
const (
	DefaultChatModel        = "llama-3.1-8b-instant"
	DefaultChatBaseURL      = "https://api.groq.com/openai/v1"
	DefaultEmbeddingModel   = "text-embedding-3-small"
	DefaultEmbeddingBaseURL = "https://api.openai.com/v1"
	DefaultTranscriptsDir   = "transcripts"
	DefaultChunkSize        = 1000
	DefaultChunkOverlap     = 100
	DefaultTopK             = 4
)

// Config holds all runtime configuration.
type Config struct {
	// APIKey is the chat-completion API key (GROQ_API_KEY). Required.
	APIKey string

	// ChatModel and ChatBaseURL select the chat-completion endpoint.
	ChatModel   string
	ChatBaseURL string

	// EmbeddingModel, EmbeddingBaseURL and EmbeddingAPIKey select the
	// embedding endpoint. The key falls back to OPENAI_API_KEY, then to the
	// chat key, so a single secret still works against a combined provider.
	EmbeddingModel   string
	EmbeddingBaseURL string
	EmbeddingAPIKey  string

	// TranscriptsDir is the base directory for stored transcript files.
	TranscriptsDir string

	// Chunking and retrieval parameters.
	ChunkSize    int
	ChunkOverlap int
	TopK         int
}

// Load reads configuration from the process environment. It fails with
// ErrMissingAPIKey when the required secret is absent.
func Load() (*Config, error) {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	embeddingKey := os.Getenv("TUTOR_EMBEDDING_API_KEY")
	if embeddingKey == "" {
		embeddingKey = os.Getenv("OPENAI_API_KEY")
	}
	if embeddingKey == "" {
		embeddingKey = apiKey
	}

	return &Config{
		APIKey:           apiKey,
		ChatModel:        getenvDefault("TUTOR_CHAT_MODEL", DefaultChatModel),
		ChatBaseURL:      getenvDefault("TUTOR_CHAT_BASE_URL", DefaultChatBaseURL),
		EmbeddingModel:   getenvDefault("TUTOR_EMBEDDING_MODEL", DefaultEmbeddingModel),
		EmbeddingBaseURL: getenvDefault("TUTOR_EMBEDDING_BASE_URL", DefaultEmbeddingBaseURL),
		EmbeddingAPIKey:  embeddingKey,
		TranscriptsDir:   getenvDefault("TUTOR_TRANSCRIPTS_DIR", DefaultTranscriptsDir),
		ChunkSize:        getenvInt("TUTOR_CHUNK_SIZE", DefaultChunkSize),
		ChunkOverlap:     getenvInt("TUTOR_CHUNK_OVERLAP", DefaultChunkOverlap),
		TopK:             getenvInt("TUTOR_TOP_K", DefaultTopK),
	}, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
