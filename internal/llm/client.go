package llm

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/openai/openai-go/option"
)

type LLMTokenUsage struct {
	InputTokens  int64
	OutputTokens int64
}

type LLMSendResponse struct {
	Content string
	Usage   LLMTokenUsage
}

type LLMClient interface {
	Send(ctx context.Context, messages []Message) (*LLMSendResponse, error)
}

type LLMProvider string

const (
	LLMProviderOpenAI LLMProvider = "openai"
	LLMProviderOllama LLMProvider = "ollama"
)

var LLMProviders = []LLMProvider{LLMProviderOpenAI, LLMProviderOllama}

var ErrEmptyCompletion = errors.New("no completion choices returned")

// SamplingParams are sent with every completion request.
type SamplingParams struct {
	Temperature      float64
	MaxTokens        int64
	TopP             float64
	TopK             int64
	PresencePenalty  float64
	FrequencyPenalty float64
}

// DefaultSampling favors varied, non-repetitive, moderately long replies.
var DefaultSampling = SamplingParams{
	Temperature:      0.85,
	MaxTokens:        1024,
	TopP:             0.9,
	TopK:             40,
	PresencePenalty:  0.5,
	FrequencyPenalty: 0.3,
}

type LLMClientOptions struct {
	Model string
	// APIKey and BaseURL are used by OpenAI compatible providers.
	APIKey  string
	BaseURL string
	// Endpoint is the ollama server URL.
	Endpoint string
	Sampling SamplingParams
}

func NewClient(provider LLMProvider, opts LLMClientOptions) (LLMClient, error) {
	if opts.Sampling == (SamplingParams{}) {
		opts.Sampling = DefaultSampling
	}

	switch provider {
	case LLMProviderOpenAI:
		var reqOpts []option.RequestOption
		if opts.BaseURL != "" {
			reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
		}
		return newOpenAIClient(opts.APIKey, opts.Model, opts.Sampling, reqOpts...), nil
	case LLMProviderOllama:
		if opts.Endpoint == "" {
			return nil, fmt.Errorf("ollama endpoint is not set")
		}
		localEndpoint, err := url.Parse(opts.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("ollama endpoint URL is invalid: %v", err)
		}
		return newOllamaClient(*localEndpoint, opts.Model, opts.Sampling), nil
	default:
		return nil, fmt.Errorf("%s: invalid provider", provider)
	}
}
