package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        int
	DatabaseURL string
	LogLevel    string

	GroqAPIKey     string
	GroqModel      string
	GroqMaxTokens  int
	EmbedAPIURL    string
	EmbedAPIKey    string
	EmbedModel     string
	EmbedDimension int

	RAGTopK      int
	HistoryLimit int
	DisableRAG   bool

	PersonaPath string

	NatsURL   string
	NatsToken string
}

func Load() Config {
	return Config{
		Port:        envInt("DOPPEL_PORT", 8000),
		DatabaseURL: envStr("DATABASE_URL", ""),
		LogLevel:    envStr("LOG_LEVEL", "info"),

		GroqAPIKey:     envStr("GROQ_API_KEY", ""),
		GroqModel:      envStr("GROQ_MODEL", "llama-3.3-70b-versatile"),
		GroqMaxTokens:  envInt("GROQ_MAX_TOKENS", 256),
		EmbedAPIURL:    envStr("EMBED_API_URL", "http://localhost:8080/v1"),
		EmbedAPIKey:    envStr("EMBED_API_KEY", ""),
		EmbedModel:     envStr("EMBED_MODEL", "all-MiniLM-L6-v2"),
		EmbedDimension: envInt("EMBED_DIMENSION", 384),

		RAGTopK:      envInt("RAG_TOP_K", 8),
		HistoryLimit: envInt("HISTORY_LIMIT", 10),
		DisableRAG:   envBool("DISABLE_RAG", false),

		PersonaPath: envStr("PERSONA_PATH", ""),

		NatsURL:   envStr("NATS_URL", ""),
		NatsToken: envStr("NATS_TOKEN", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}
