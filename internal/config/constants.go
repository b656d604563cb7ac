package config

import "fmt"

const (
	ENV_PREFIX = "DOBBY"

	ENV_PROVIDER        = "PROVIDER"
	ENV_MODEL           = "MODEL"
	ENV_LLM_API_KEY     = "LLM_API_KEY"
	ENV_LLM_BASE_URL    = "LLM_BASE_URL"
	ENV_OLLAMA_ENDPOINT = "OLLAMA_ENDPOINT"

	ENV_FOOTBALL_API_KEY  = "FOOTBALL_API_KEY"
	ENV_FOOTBALL_BASE_URL = "FOOTBALL_BASE_URL"
	ENV_FOOTBALL_LEAGUE   = "FOOTBALL_LEAGUE"

	ENV_MARKET_BASE_URL = "MARKET_BASE_URL"
	ENV_MARKET_ASSETS   = "MARKET_ASSETS"
	ENV_MARKET_CURRENCY = "MARKET_CURRENCY"

	ENV_ADDR          = "ADDR"
	ENV_PUBLIC_DIR    = "PUBLIC_DIR"
	ENV_PERSONAS_FILE = "PERSONAS_FILE"
	ENV_VERBOSE       = "VERBOSE"

	// Unprefixed names from older .env files, still honored.
	LEGACY_LLM_API_KEY      = "FIREWORKS_API_KEY"
	LEGACY_FOOTBALL_API_KEY = "FOOTBALL_API_KEY"
)

const (
	DEFAULT_PROVIDER          = "openai"
	DEFAULT_MODEL             = "accounts/sentientfoundation-serverless/models/dobby-mini-unhinged-plus-llama-3-1-8b"
	DEFAULT_LLM_BASE_URL      = "https://api.fireworks.ai/inference/v1"
	DEFAULT_FOOTBALL_BASE_URL = "https://api.football-data.org/v4"
	DEFAULT_FOOTBALL_LEAGUE   = "PL"
	DEFAULT_MARKET_BASE_URL   = "https://api.coingecko.com/api/v3"
	DEFAULT_MARKET_CURRENCY   = "usd"
	DEFAULT_ADDR              = ":3000"
	DEFAULT_ENV_FILE          = ".env"
)

var DEFAULT_MARKET_ASSETS = []string{"bitcoin", "ethereum", "solana"}

func GetEnvWithPrefix(env string) string {
	return fmt.Sprintf("%s_%s", ENV_PREFIX, env)
}
