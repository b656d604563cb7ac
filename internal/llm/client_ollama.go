package llm

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

type ollamaChatter interface {
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

type llmClientOllama struct {
	client   ollamaChatter
	model    string
	sampling SamplingParams
}
type LlmClientOllama LLMClient

func newOllamaClient(localEndpoint url.URL, model string, sampling SamplingParams) LlmClientOllama {
	return &llmClientOllama{
		client:   api.NewClient(&localEndpoint, http.DefaultClient),
		model:    model,
		sampling: sampling,
	}
}

func (ai *llmClientOllama) Send(ctx context.Context, messages []Message) (*LLMSendResponse, error) {
	stream := false
	var content strings.Builder
	var usage LLMTokenUsage

	err := ai.client.Chat(ctx, &api.ChatRequest{
		Model:    ai.model,
		Messages: ai.toOllamaMessages(messages),
		Stream:   &stream,
		Options:  ai.options(),
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		if resp.Done {
			usage = LLMTokenUsage{
				InputTokens:  int64(resp.PromptEvalCount),
				OutputTokens: int64(resp.EvalCount),
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if content.Len() == 0 {
		return nil, ErrEmptyCompletion
	}

	return &LLMSendResponse{
		Content: content.String(),
		Usage:   usage,
	}, nil
}

func (ai *llmClientOllama) options() map[string]any {
	return map[string]any{
		"temperature":       ai.sampling.Temperature,
		"num_predict":       ai.sampling.MaxTokens,
		"top_p":             ai.sampling.TopP,
		"top_k":             ai.sampling.TopK,
		"presence_penalty":  ai.sampling.PresencePenalty,
		"frequency_penalty": ai.sampling.FrequencyPenalty,
	}
}

func (ai *llmClientOllama) toOllamaMessages(messages []Message) []api.Message {
	var ollamaMessages []api.Message
	for _, msg := range messages {
		ollamaMessages = append(ollamaMessages, api.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return ollamaMessages
}
