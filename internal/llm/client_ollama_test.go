package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ollamaMockClient struct {
	mock.Mock
}

func (m *ollamaMockClient) Chat(ctx context.Context, req *api.ChatRequest, callback api.ChatResponseFunc) error {
	args := m.Called(ctx, req, callback)

	return args.Error(0)
}

type ollamaMockClientOptions struct {
	Context context.Context
	ChatErr error
	ChatOut []api.ChatResponse
}

func newOllamaMockClient(model string, opts ollamaMockClientOptions) *llmClientOllama {
	mockClient := new(ollamaMockClient)
	mockClient.On("Chat", opts.Context, mock.AnythingOfType("*api.ChatRequest"), mock.AnythingOfType("api.ChatResponseFunc")).
		Return(opts.ChatErr).
		Run(
			func(args mock.Arguments) {
				callback := args.Get(2).(api.ChatResponseFunc)
				for _, res := range opts.ChatOut {
					callback(res)
				}
			},
		)
	return &llmClientOllama{
		client:   mockClient,
		model:    model,
		sampling: DefaultSampling,
	}
}

func TestSendOllama_Success(t *testing.T) {
	done := api.ChatResponse{Message: api.Message{Content: "from mock"}, Done: true}
	done.PromptEvalCount = 7
	done.EvalCount = 3
	client := newOllamaMockClient("llama3", ollamaMockClientOptions{
		Context: t.Context(),
		ChatOut: []api.ChatResponse{
			{Message: api.Message{Content: "hello "}},
			done,
		},
	})

	res, err := client.Send(t.Context(), []Message{{Role: System, Content: "be nice"}, {Role: User, Content: "hello"}})

	require.NoError(t, err)
	assert.Equal(t, "hello from mock", res.Content)
	assert.Equal(t, LLMTokenUsage{InputTokens: 7, OutputTokens: 3}, res.Usage)

	mockClient := client.client.(*ollamaMockClient)
	mockClient.AssertExpectations(t)
	req := mockClient.Calls[0].Arguments.Get(1).(*api.ChatRequest)
	assert.Equal(t, "llama3", req.Model)
	require.NotNil(t, req.Stream)
	assert.False(t, *req.Stream)
	assert.Equal(t, []api.Message{{Role: "system", Content: "be nice"}, {Role: "user", Content: "hello"}}, req.Messages)
	assert.Equal(t, 0.85, req.Options["temperature"])
	assert.Equal(t, int64(1024), req.Options["num_predict"])
	assert.Equal(t, int64(40), req.Options["top_k"])
}

func TestSendOllama_Error(t *testing.T) {
	client := newOllamaMockClient("llama3", ollamaMockClientOptions{
		Context: t.Context(),
		ChatErr: errors.New("connection refused"),
	})

	res, err := client.Send(t.Context(), []Message{{Content: "hello"}})

	assert.Nil(t, res)
	assert.EqualError(t, err, "connection refused")
}

func TestSendOllama_EmptyReply(t *testing.T) {
	client := newOllamaMockClient("llama3", ollamaMockClientOptions{
		Context: t.Context(),
		ChatOut: []api.ChatResponse{{Done: true}},
	})

	res, err := client.Send(t.Context(), []Message{{Content: "hello"}})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}
