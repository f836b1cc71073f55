package file

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// --- Tests ---

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[embedding]
provider = "ollama"
model = "all-minilm"
base_url = "http://localhost:11434"

[chunking]
size = 300
overlap = 30

[search]
top_k = 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Embedding.Provider)
	assert.Equal(t, "all-minilm", cfg.Embedding.Model)
	assert.Equal(t, 300, cfg.Chunking.Size)
	assert.Equal(t, 30, cfg.Chunking.Overlap)
	assert.Equal(t, 5, cfg.Search.TopK)
	// Untouched sections keep defaults.
	assert.Equal(t, Default().LLM, cfg.LLM)
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := writeConfig(t, "not = [valid")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfig))
}

func TestLoad_UnknownProvider(t *testing.T) {
	path := writeConfig(t, `
[llm]
provider = "skynet"
model = "t-800"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfig))
}

func TestLoad_OverlapNotBelowSize(t *testing.T) {
	path := writeConfig(t, `
[chunking]
size = 100
overlap = 100
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfig))
}

func TestAPIKey(t *testing.T) {
	t.Run("resolves from environment", func(t *testing.T) {
		t.Setenv("COURSEFIND_TEST_KEY", "sk-test")
		p := ProviderConfig{Provider: ProviderOpenAI, Model: "m", APIKeyEnv: "COURSEFIND_TEST_KEY"}
		key, err := p.APIKey()
		require.NoError(t, err)
		assert.Equal(t, "sk-test", key)
	})

	t.Run("missing variable is a config error", func(t *testing.T) {
		p := ProviderConfig{Provider: ProviderGemini, Model: "m", APIKeyEnv: "COURSEFIND_UNSET_KEY"}
		_, err := p.APIKey()
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConfig))
	})

	t.Run("ollama needs no key", func(t *testing.T) {
		p := ProviderConfig{Provider: ProviderOllama, Model: "m"}
		key, err := p.APIKey()
		require.NoError(t, err)
		assert.Empty(t, key)
	})
}
