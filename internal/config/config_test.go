package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	for _, key := range []string{
		LEGACY_LLM_API_KEY,
		LEGACY_FOOTBALL_API_KEY,
		GetEnvWithPrefix(ENV_LLM_API_KEY),
		GetEnvWithPrefix(ENV_FOOTBALL_API_KEY),
		GetEnvWithPrefix(ENV_MODEL),
		GetEnvWithPrefix(ENV_MARKET_ASSETS),
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	v := viper.New()
	Setup(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load(newViper(t))

	assert.Equal(t, DEFAULT_PROVIDER, cfg.LLM.Provider)
	assert.Equal(t, DEFAULT_MODEL, cfg.LLM.Model)
	assert.Equal(t, DEFAULT_LLM_BASE_URL, cfg.LLM.BaseURL)
	assert.Equal(t, "PL", cfg.Football.League)
	assert.Equal(t, []string{"bitcoin", "ethereum", "solana"}, cfg.Market.Assets)
	assert.Equal(t, "usd", cfg.Market.Currency)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Empty(t, cfg.LLM.APIKey)
	assert.Empty(t, cfg.Football.APIKey)
}

func TestLoad_LegacyEnvNames(t *testing.T) {
	v := newViper(t)
	t.Setenv(LEGACY_LLM_API_KEY, "fw-key")
	t.Setenv(LEGACY_FOOTBALL_API_KEY, "fd-key")

	cfg := Load(v)

	assert.Equal(t, "fw-key", cfg.LLM.APIKey)
	assert.Equal(t, "fd-key", cfg.Football.APIKey)
}

func TestLoad_PrefixedEnvWins(t *testing.T) {
	v := newViper(t)
	t.Setenv(LEGACY_LLM_API_KEY, "legacy")
	t.Setenv(GetEnvWithPrefix(ENV_LLM_API_KEY), "prefixed")
	t.Setenv(GetEnvWithPrefix(ENV_MARKET_ASSETS), " bitcoin , dogecoin,,")

	cfg := Load(v)

	assert.Equal(t, "prefixed", cfg.LLM.APIKey)
	assert.Equal(t, []string{"bitcoin", "dogecoin"}, cfg.Market.Assets)
}

func TestWarnings(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		expected int
	}{
		{
			name:     "everything missing",
			cfg:      Config{LLM: LLMConfig{Provider: "openai"}},
			expected: 2,
		},
		{
			name: "all credentials set",
			cfg: Config{
				LLM:      LLMConfig{Provider: "openai", APIKey: "k"},
				Football: FootballConfig{APIKey: "k"},
			},
			expected: 0,
		},
		{
			name:     "ollama needs no llm key",
			cfg:      Config{LLM: LLMConfig{Provider: "ollama"}, Football: FootballConfig{APIKey: "k"}},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, tt.cfg.Warnings(), tt.expected)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("DOBBY_TEST_FROM_FILE=file\nDOBBY_TEST_ALREADY_SET=file\n"), 0o600))
	t.Setenv("DOBBY_TEST_ALREADY_SET", "env")
	t.Setenv("DOBBY_TEST_FROM_FILE", "")
	os.Unsetenv("DOBBY_TEST_FROM_FILE")

	require.NoError(t, LoadEnvFile(path))

	assert.Equal(t, "file", os.Getenv("DOBBY_TEST_FROM_FILE"))
	assert.Equal(t, "env", os.Getenv("DOBBY_TEST_ALREADY_SET"))
}

func TestLoadEnvFile_Missing(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")))
}
