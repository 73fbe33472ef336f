package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPersistDir is used for the embedded vector store when
// vector_db.persist_directory is left unset.
const DefaultPersistDir = "./vector_store"

// LocalHost is the sentinel host value that selects the embedded
// persistent backend instead of a remote client.
const LocalHost = "localhost"

// Config holds all configuration for the ingestion tool. It is loaded
// once at startup and treated as read-only afterwards.
type Config struct {
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Ingestion IngestionConfig `yaml:"ingestion"`
	VectorDB  VectorDBConfig  `yaml:"vector_db"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "gemini", "mock"
	Model     string `yaml:"model"`       // e.g., "text-embedding-004"
	APIKeyEnv string `yaml:"api_key_env"` // Environment variable for API key
}

// LLMConfig holds query-time LLM settings. Ingestion itself never calls
// the LLM; the section is validated and carried for downstream tools.
type LLMConfig struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

// ChunkingConfig holds text splitting configuration.
type ChunkingConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// IngestionConfig holds document loading configuration.
type IngestionConfig struct {
	DataDirectory    string   `yaml:"data_directory"`
	SupportedFormats []string `yaml:"supported_formats"` // extensions without the dot, e.g. "txt"
}

// VectorDBConfig holds vector store connection configuration.
type VectorDBConfig struct {
	Host             string `yaml:"host"`
	Port             int    `yaml:"port"`
	CollectionName   string `yaml:"collection_name"`
	PersistDirectory string `yaml:"persist_directory"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// IsLocal reports whether the embedded persistent backend is selected.
func (v VectorDBConfig) IsLocal() bool {
	return v.Host == LocalHost
}

// Error reports every problem found while loading or validating a
// configuration file, so a bad config surfaces all missing or invalid
// fields at once instead of failing on first access.
type Error struct {
	Problems []string
}

func (e *Error) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Load reads and validates a YAML configuration file. A missing or
// malformed file, or any missing required key, returns an *Error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Problems: []string{fmt.Sprintf("read config file %s: %v", path, err)}}
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &Error{Problems: []string{fmt.Sprintf("parse config file %s: %v", path, err)}}
	}

	if cfg.VectorDB.IsLocal() && cfg.VectorDB.PersistDirectory == "" {
		cfg.VectorDB.PersistDirectory = DefaultPersistDir
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var problems []string

	if c.Embedding.Provider == "" {
		problems = append(problems, "embedding.provider is required")
	}
	if c.Embedding.Model == "" {
		problems = append(problems, "embedding.model is required")
	}
	if c.Embedding.APIKeyEnv == "" && c.Embedding.Provider != "mock" {
		problems = append(problems, "embedding.api_key_env is required")
	}

	if c.LLM.Model == "" {
		problems = append(problems, "llm.model is required")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		problems = append(problems, fmt.Sprintf("llm.temperature must be in [0, 2], got %g", c.LLM.Temperature))
	}

	if c.Chunking.ChunkSize <= 0 {
		problems = append(problems, "chunking.chunk_size must be positive")
	}
	if c.Chunking.ChunkOverlap < 0 {
		problems = append(problems, "chunking.chunk_overlap must not be negative")
	} else if c.Chunking.ChunkSize > 0 && c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		problems = append(problems, fmt.Sprintf("chunking.chunk_overlap (%d) must be less than chunk_size (%d)", c.Chunking.ChunkOverlap, c.Chunking.ChunkSize))
	}

	if c.Ingestion.DataDirectory == "" {
		problems = append(problems, "ingestion.data_directory is required")
	}
	if len(c.Ingestion.SupportedFormats) == 0 {
		problems = append(problems, "ingestion.supported_formats must list at least one extension")
	}

	if c.VectorDB.Host == "" {
		problems = append(problems, "vector_db.host is required")
	}
	if c.VectorDB.CollectionName == "" {
		problems = append(problems, "vector_db.collection_name is required")
	}
	if !c.VectorDB.IsLocal() && c.VectorDB.Port <= 0 {
		problems = append(problems, "vector_db.port is required for a remote host")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level %q is not one of debug, info, warning, error", c.Logging.Level))
	}

	if len(problems) > 0 {
		return &Error{Problems: problems}
	}
	return nil
}
