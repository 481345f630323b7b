package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	IS_PROD      = false
	TRACE_ID_KEY = "traceId"

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 120 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//http pooling for upstream calls
	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	QdrantConnectionTimeout = 30 * time.Second

	//redis has 16 DBs we can use
	RedisDocumentStore = 0
)

// Config holds every runtime setting. Loaded once at startup, never mutated after.
type Config struct {
	ListenAddr string

	//remote chat completion provider (OpenRouter-style OpenAI-compatible API)
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterModel   string

	//embeddings provider (OpenAI-compatible API)
	EmbedAPIKey    string
	EmbedBaseURL   string
	EmbedModel     string
	EmbedDimension int

	RetrievalK int

	//documents on disk
	DataDir string

	//vector store
	QdrantHost       string
	QdrantPort       int
	QdrantUseTLS     bool
	QdrantPoolSize   int
	VectorCollection string

	ChunkSize    int
	ChunkOverlap int

	AllowedExts    []string
	MaxUploadMB    int
	MaxUploadBytes int64

	HTTPTimeout time.Duration
	HTTPReferer string
	HTTPTitle   string

	RedisAddr     string
	RedisPassword string

	CacheEnabled          bool
	CacheSimilarityCutoff float32

	RateLimitPerSecond int
	BurstRateLimit     int
}

// Load reads .env (best effort) and the environment. Malformed values silently
// fall back to defaults, matching how the service has always behaved.
func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		ListenAddr: asString("LISTEN_ADDR", ":3000"),

		OpenRouterAPIKey:  asString("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL: asString("OPENROUTER_BASE_URL", ""),
		OpenRouterModel:   asString("OPENROUTER_MODEL", "tngtech/deepseek-r1t2-chimera:free"),

		EmbedAPIKey:    asString("EMBED_API_KEY", ""),
		EmbedBaseURL:   asString("EMBED_BASE_URL", "https://api.openai.com/v1"),
		EmbedModel:     asString("EMBED_MODEL", "text-embedding-3-small"),
		EmbedDimension: asInt("EMBED_DIMENSION", 1536),

		RetrievalK: asInt("RETRIEVAL_K", 4),

		DataDir: asPath("DATA_DIR", filepath.Join("data", "docs")),

		QdrantHost:       asString("QDRANT_HOST", "127.0.0.1"),
		QdrantPort:       asInt("QDRANT_PORT", 6334),
		QdrantUseTLS:     asBool("QDRANT_USE_TLS", false),
		QdrantPoolSize:   asInt("QDRANT_POOL_SIZE", 1),
		VectorCollection: asString("QDRANT_COLLECTION", "docs"),

		ChunkSize:    asInt("SPLIT_CHUNK_SIZE", 1000),
		ChunkOverlap: asInt("SPLIT_CHUNK_OVERLAP", 150),

		AllowedExts: asList("ALLOWED_EXTS", []string{".txt", ".md", ".pdf"}),
		MaxUploadMB: asInt("MAX_UPLOAD_MB", 25),

		HTTPTimeout: time.Duration(asFloat("HTTP_TIMEOUT_SECONDS", 60) * float64(time.Second)),
		HTTPReferer: asString("HTTP_REFERER", "http://localhost"),
		HTTPTitle:   asString("HTTP_TITLE", "Simple-RAG-Ask"),

		RedisAddr:     asString("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: asString("REDIS_PASSWORD", ""),

		CacheEnabled:          asBool("CACHE_ENABLED", false),
		CacheSimilarityCutoff: float32(asFloat("CACHE_SIMILARITY_CUTOFF", 0.97)),

		RateLimitPerSecond: asInt("RATE_LIMIT_PER_SECOND", 2),
		BurstRateLimit:     asInt("BURST_RATE_LIMIT", 5),
	}
	c.MaxUploadBytes = int64(c.MaxUploadMB) * 1024 * 1024
	return c
}

// ExtAllowed reports whether the lowercase extension of filename may be uploaded.
func (c *Config) ExtAllowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range c.AllowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

func asString(name string, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func asInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func asFloat(name string, fallback float64) float64 {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func asBool(name string, fallback bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// asList accepts comma or whitespace separated values.
func asList(name string, fallback []string) []string {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	var parts []string
	for _, p := range strings.Fields(strings.ReplaceAll(v, ",", " ")) {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, ".") {
			p = "." + p
		}
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}

func asPath(name string, fallback string) string {
	p := asString(name, fallback)
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
