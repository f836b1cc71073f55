// Package file loads the coursefind configuration from a TOML file.
// Missing settings fall back to defaults; invalid settings fail fast
// with domain.ErrConfig so a bad config never produces a half-working
// pipeline.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
)

// Provider names accepted for embedding and LLM backends.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// Config is the full coursefind configuration.
type Config struct {
	Data      DataConfig     `toml:"data"`
	Embedding ProviderConfig `toml:"embedding"`
	LLM       ProviderConfig `toml:"llm"`
	Chunking  ChunkingConfig `toml:"chunking"`
	Search    SearchConfig   `toml:"search"`
	Scrape    ScrapeConfig   `toml:"scrape"`
	Server    ServerConfig   `toml:"server"`
}

// DataConfig locates the course catalogue and the index directory.
type DataConfig struct {
	// CoursesPath is the JSON file holding scraped course records.
	CoursesPath string `toml:"courses_path"`
	// IndexDir is where the persisted index database lives.
	IndexDir string `toml:"index_dir"`
}

// ProviderConfig selects and configures an embedding or LLM backend.
type ProviderConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	// APIKeyEnv names the environment variable holding the API key.
	// Keys never live in the config file itself.
	APIKeyEnv string `toml:"api_key_env"`
}

// ChunkingConfig controls document splitting.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// SearchConfig controls retrieval.
type SearchConfig struct {
	TopK int `toml:"top_k"`
}

// ScrapeConfig controls the catalogue scraper.
type ScrapeConfig struct {
	BaseURL           string  `toml:"base_url"`
	Headless          bool    `toml:"headless"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// ServerConfig controls the HTTP endpoint.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file or setting is
// present.
func Default() Config {
	return Config{
		Data: DataConfig{
			CoursesPath: "courses.json",
		},
		Embedding: ProviderConfig{
			Provider:  ProviderOpenAI,
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		LLM: ProviderConfig{
			Provider:  ProviderOpenAI,
			Model:     "gpt-4o-mini",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Chunking: ChunkingConfig{
			Size:    500,
			Overlap: 50,
		},
		Search: SearchConfig{
			TopK: 3,
		},
		Scrape: ScrapeConfig{
			Headless:          true,
			RequestsPerSecond: 2,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// DefaultPath returns ~/.coursefind/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".coursefind", "config.toml"), nil
}

// Load reads the configuration at path, applying defaults for absent
// settings. A missing file yields the defaults; a malformed or invalid
// file is a domain.ErrConfig.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("%w: reading config %s: %v", domain.ErrConfig, path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parsing config %s: %v", domain.ErrConfig, path, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if err := validateProvider("embedding", c.Embedding); err != nil {
		return err
	}
	if err := validateProvider("llm", c.LLM); err != nil {
		return err
	}
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("%w: chunking.size must be positive, got %d", domain.ErrConfig, c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("%w: chunking.overlap must be in [0, size), got %d", domain.ErrConfig, c.Chunking.Overlap)
	}
	if c.Search.TopK <= 0 {
		return fmt.Errorf("%w: search.top_k must be positive, got %d", domain.ErrConfig, c.Search.TopK)
	}
	if c.Scrape.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: scrape.requests_per_second must be positive, got %g", domain.ErrConfig, c.Scrape.RequestsPerSecond)
	}
	return nil
}

func validateProvider(section string, p ProviderConfig) error {
	switch p.Provider {
	case ProviderOpenAI, ProviderOllama, ProviderGemini:
	default:
		return fmt.Errorf("%w: %s.provider must be one of %s, %s, %s; got %q",
			domain.ErrConfig, section, ProviderOpenAI, ProviderOllama, ProviderGemini, p.Provider)
	}
	if p.Model == "" {
		return fmt.Errorf("%w: %s.model is required", domain.ErrConfig, section)
	}
	return nil
}

// APIKey resolves the provider's API key from the environment. Ollama
// runs locally and needs no key; for the hosted providers a missing
// key is a domain.ErrConfig.
func (p ProviderConfig) APIKey() (string, error) {
	if p.Provider == ProviderOllama {
		return "", nil
	}
	if p.APIKeyEnv == "" {
		return "", fmt.Errorf("%w: api_key_env is required for provider %q", domain.ErrConfig, p.Provider)
	}
	key := os.Getenv(p.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%w: environment variable %s is not set", domain.ErrConfig, p.APIKeyEnv)
	}
	return key, nil
}
