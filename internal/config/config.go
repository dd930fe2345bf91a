package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port        int               `json:"port"`
	AllowOrigin string            `json:"allow_origin"`
	LogConfig   logger.LogConfig  `json:"log_config"`
	AI          AIConfig          `json:"ai"`
	RAG         RAGConfig         `json:"rag"`
	VectorStore VectorStoreConfig `json:"vector_store"`
	EmbedCache  EmbedCacheConfig  `json:"embed_cache"`
	CleanupCron string            `json:"cleanup_cron"`
}

type AIConfig struct {
	Provider      string `json:"provider"`
	GenerateModel string `json:"generate_model"`
	EmbedModel    string `json:"embed_model"`
	// Dimension must match the index dimension; 768 and 1024 are the
	// two embedding model generations in use.
	Dimension      int    `json:"dimension"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	RetryAttempts  int    `json:"retry_attempts"`
	APIKey         string `json:"api_key"`
	BaseURL        string `json:"base_url"`
}

type RAGConfig struct {
	ChunkSize int `json:"chunk_size"`
	// ChunkOverlap defaults to 0. Boundary context loss at chunk edges
	// is a known tradeoff; tune here rather than in code.
	ChunkOverlap int `json:"chunk_overlap"`
	TopK         int `json:"top_k"`
}

type VectorStoreConfig struct {
	Type     string         `json:"type"` // pinecone | pgvector
	Pinecone PineconeConfig `json:"pinecone"`
	Postgres PostgresConfig `json:"postgres"`
}

type PineconeConfig struct {
	APIKey         string `json:"api_key"`
	Index          string `json:"index"`
	Region         string `json:"region"`
	ControlURL     string `json:"control_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type PostgresConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type EmbedCacheConfig struct {
	LRUSize       int  `json:"lru_size"`
	LRUTTLMinutes int  `json:"lru_ttl_minutes"`
	UseDB         bool `json:"use_db"`
	MaxAgeDays    int  `json:"max_age_days"`
}

// Load reads the JSON config file, applies environment overrides and
// fills defaults. Configuration is read once at startup; there is no
// hot reload.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyEnv()
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv maps the externally supplied secrets onto the config.
// Environment values win over file values.
func (cfg *Config) applyEnv() {
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("PINECONE_API_KEY"); v != "" {
		cfg.VectorStore.Pinecone.APIKey = v
	}
	if v := os.Getenv("PINECONE_INDEX"); v != "" {
		cfg.VectorStore.Pinecone.Index = v
	}
	if v := os.Getenv("PINECONE_ENV"); v != "" {
		cfg.VectorStore.Pinecone.Region = v
	}
}

func (cfg *Config) applyDefaults() error {
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	if cfg.AllowOrigin == "" {
		return fmt.Errorf("allow_origin is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "gemini"
	}
	if cfg.AI.GenerateModel == "" || cfg.AI.EmbedModel == "" {
		return fmt.Errorf("ai.generate_model and ai.embed_model are required")
	}
	if cfg.AI.Dimension == 0 {
		return fmt.Errorf("ai.dimension is required")
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 60
	}
	if cfg.AI.RetryAttempts == 0 {
		cfg.AI.RetryAttempts = 3
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = 1000
	}
	if cfg.RAG.ChunkOverlap < 0 || cfg.RAG.ChunkOverlap >= cfg.RAG.ChunkSize {
		return fmt.Errorf("rag.chunk_overlap must be in [0, chunk_size)")
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = 5
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "pinecone"
	}
	switch cfg.VectorStore.Type {
	case "pinecone":
		if cfg.VectorStore.Pinecone.APIKey == "" || cfg.VectorStore.Pinecone.Index == "" {
			return fmt.Errorf("vector_store.pinecone api_key and index are required")
		}
		if cfg.VectorStore.Pinecone.TimeoutSeconds == 0 {
			cfg.VectorStore.Pinecone.TimeoutSeconds = 15
		}
	case "pgvector":
		if cfg.VectorStore.Postgres.DSN == "" && cfg.VectorStore.Postgres.Host == "" {
			return fmt.Errorf("vector_store.postgres dsn or host is required")
		}
	default:
		return fmt.Errorf("vector_store.type must be pinecone or pgvector")
	}
	if cfg.EmbedCache.LRUSize == 0 {
		cfg.EmbedCache.LRUSize = 4096
	}
	if cfg.EmbedCache.LRUTTLMinutes == 0 {
		cfg.EmbedCache.LRUTTLMinutes = 120
	}
	if cfg.EmbedCache.MaxAgeDays == 0 {
		cfg.EmbedCache.MaxAgeDays = 30
	}
	if cfg.CleanupCron == "" {
		cfg.CleanupCron = "0 3 * * *"
	}
	return nil
}
