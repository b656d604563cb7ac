package llm

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openaiChatCompleter interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

type llmClientOpenAi struct {
	client   openaiChatCompleter
	model    string
	sampling SamplingParams
}
type LLMClientOpenAI LLMClient

// newOpenAIClient talks to any OpenAI compatible chat completions API. SDK
// retries are off: callers own the attempt budget.
func newOpenAIClient(apiKey string, model string, sampling SamplingParams, opts ...option.RequestOption) LLMClientOpenAI {
	clientOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)
	client := openai.NewClient(clientOpts...)

	return &llmClientOpenAi{
		client:   &client.Chat.Completions,
		model:    model,
		sampling: sampling,
	}
}

func (ai *llmClientOpenAi) toOpenAiMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	var openAiMessages []openai.ChatCompletionMessageParamUnion
	for _, msg := range messages {
		switch msg.Role {
		case User:
			openAiMessages = append(openAiMessages, openai.UserMessage(msg.Content))
		case Assistant:
			openAiMessages = append(openAiMessages, openai.AssistantMessage(msg.Content))
		case System:
			openAiMessages = append(openAiMessages, openai.SystemMessage(msg.Content))
		default:
			openAiMessages = append(openAiMessages, openai.UserMessage(msg.Content))
		}
	}
	return openAiMessages
}

func (ai *llmClientOpenAi) params(messages []Message) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model:            ai.model,
		Messages:         ai.toOpenAiMessages(messages),
		N:                openai.Int(1),
		Temperature:      openai.Float(ai.sampling.Temperature),
		MaxTokens:        openai.Int(ai.sampling.MaxTokens),
		TopP:             openai.Float(ai.sampling.TopP),
		PresencePenalty:  openai.Float(ai.sampling.PresencePenalty),
		FrequencyPenalty: openai.Float(ai.sampling.FrequencyPenalty),
	}
}

func (ai *llmClientOpenAi) Send(ctx context.Context, messages []Message) (*LLMSendResponse, error) {
	var reqOpts []option.RequestOption
	// top_k is not part of the OpenAI schema but Fireworks and most
	// compatible servers accept it.
	if ai.sampling.TopK > 0 {
		reqOpts = append(reqOpts, option.WithJSONSet("top_k", ai.sampling.TopK))
	}

	res, err := ai.client.New(ctx, ai.params(messages), reqOpts...)
	if err != nil {
		return nil, err
	}
	if len(res.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	return &LLMSendResponse{
		Content: res.Choices[0].Message.Content,
		Usage: LLMTokenUsage{
			InputTokens:  res.Usage.PromptTokens,
			OutputTokens: res.Usage.CompletionTokens,
		},
	}, nil
}
