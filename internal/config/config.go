package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type LLMConfig struct {
	Provider       string
	Model          string
	APIKey         string
	BaseURL        string
	OllamaEndpoint string
}

type FootballConfig struct {
	APIKey  string
	BaseURL string
	League  string
}

type MarketConfig struct {
	BaseURL  string
	Assets   []string
	Currency string
}

type ServerConfig struct {
	Addr      string
	PublicDir string
}

// Config is read once at startup and handed to every component that needs it.
type Config struct {
	LLM          LLMConfig
	Football     FootballConfig
	Market       MarketConfig
	Server       ServerConfig
	PersonasFile string
	Verbose      bool
}

// LoadEnvFile exports the variables of a dotenv file into the process
// environment. Variables already set are left untouched and a missing file
// is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Setup registers defaults and environment bindings on v.
func Setup(v *viper.Viper) {
	v.SetDefault(ENV_PROVIDER, DEFAULT_PROVIDER)
	v.SetDefault(ENV_MODEL, DEFAULT_MODEL)
	v.SetDefault(ENV_LLM_BASE_URL, DEFAULT_LLM_BASE_URL)
	v.SetDefault(ENV_FOOTBALL_BASE_URL, DEFAULT_FOOTBALL_BASE_URL)
	v.SetDefault(ENV_FOOTBALL_LEAGUE, DEFAULT_FOOTBALL_LEAGUE)
	v.SetDefault(ENV_MARKET_BASE_URL, DEFAULT_MARKET_BASE_URL)
	v.SetDefault(ENV_MARKET_ASSETS, strings.Join(DEFAULT_MARKET_ASSETS, ","))
	v.SetDefault(ENV_MARKET_CURRENCY, DEFAULT_MARKET_CURRENCY)
	v.SetDefault(ENV_ADDR, DEFAULT_ADDR)

	v.SetEnvPrefix(ENV_PREFIX)
	v.AutomaticEnv()

	_ = v.BindEnv(ENV_LLM_API_KEY, GetEnvWithPrefix(ENV_LLM_API_KEY), LEGACY_LLM_API_KEY)
	_ = v.BindEnv(ENV_FOOTBALL_API_KEY, GetEnvWithPrefix(ENV_FOOTBALL_API_KEY), LEGACY_FOOTBALL_API_KEY)
}

func Load(v *viper.Viper) Config {
	return Config{
		LLM: LLMConfig{
			Provider:       v.GetString(ENV_PROVIDER),
			Model:          v.GetString(ENV_MODEL),
			APIKey:         v.GetString(ENV_LLM_API_KEY),
			BaseURL:        v.GetString(ENV_LLM_BASE_URL),
			OllamaEndpoint: v.GetString(ENV_OLLAMA_ENDPOINT),
		},
		Football: FootballConfig{
			APIKey:  v.GetString(ENV_FOOTBALL_API_KEY),
			BaseURL: v.GetString(ENV_FOOTBALL_BASE_URL),
			League:  v.GetString(ENV_FOOTBALL_LEAGUE),
		},
		Market: MarketConfig{
			BaseURL:  v.GetString(ENV_MARKET_BASE_URL),
			Assets:   splitList(v.GetString(ENV_MARKET_ASSETS)),
			Currency: strings.ToLower(v.GetString(ENV_MARKET_CURRENCY)),
		},
		Server: ServerConfig{
			Addr:      v.GetString(ENV_ADDR),
			PublicDir: v.GetString(ENV_PUBLIC_DIR),
		},
		PersonasFile: v.GetString(ENV_PERSONAS_FILE),
		Verbose:      v.GetBool(ENV_VERBOSE),
	}
}

// Warnings reports settings that disable a feature or will make model calls
// fail. None of them stop the process.
func (c Config) Warnings() []string {
	var warnings []string
	if c.LLM.Provider != "ollama" && c.LLM.APIKey == "" {
		warnings = append(warnings, fmt.Sprintf("no %s or %s set, model calls will fail", GetEnvWithPrefix(ENV_LLM_API_KEY), LEGACY_LLM_API_KEY))
	}
	if c.Football.APIKey == "" {
		warnings = append(warnings, fmt.Sprintf("no %s set, football data is disabled", LEGACY_FOOTBALL_API_KEY))
	}
	return warnings
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
