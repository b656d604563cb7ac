package chat

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klemjul/dobbychat/internal/enrich"
	"github.com/klemjul/dobbychat/internal/llm"
	"github.com/klemjul/dobbychat/internal/persona"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type MockLLMClient struct {
	mock.Mock
}

func (c *MockLLMClient) Send(ctx context.Context, messages []llm.Message) (*llm.LLMSendResponse, error) {
	args := c.Called(ctx, messages)
	res := args.Get(0)
	if res == nil {
		return nil, args.Error(1)
	}
	return res.(*llm.LLMSendResponse), args.Error(1)
}

type fakeEnricher struct {
	name    string
	heading string
	result  enrich.Result
	calls   atomic.Int32
}

func (f *fakeEnricher) Name() string    { return f.name }
func (f *fakeEnricher) Heading() string { return f.heading }
func (f *fakeEnricher) Fetch(ctx context.Context) enrich.Result {
	f.calls.Add(1)
	return f.result
}

func newFakeEnrichers(football, market enrich.Result) (*fakeEnricher, *fakeEnricher) {
	football.Source = "football"
	market.Source = "market"
	return &fakeEnricher{name: "football", heading: "Football info:", result: football},
		&fakeEnricher{name: "market", heading: "Crypto info:", result: market}
}

func systemMessage(instruction, user string) []llm.Message {
	return []llm.Message{
		{Role: llm.System, Content: instruction},
		{Role: llm.User, Content: user},
	}
}

func newTestOrchestrator(t *testing.T, client llm.LLMClient, enrichers ...enrich.Enricher) *Orchestrator {
	return NewOrchestrator(persona.DefaultRegistry(), client, enrichers, zaptest.NewLogger(t))
}

func TestHandle_PlainPersonaSendsInstructionOnly(t *testing.T) {
	football, market := newFakeEnrichers(enrich.Result{Text: "F"}, enrich.Result{Text: "M"})
	client := &MockLLMClient{}
	client.On("Send", mock.Anything, systemMessage(persona.ARI.Instruction, "hello")).
		Return(&llm.LLMSendResponse{Content: "hey you"}, nil).Once()

	reply, err := newTestOrchestrator(t, client, football, market).Handle(t.Context(), "ARI", "hello")

	require.NoError(t, err)
	assert.Equal(t, "hey you", reply)
	assert.Equal(t, int32(0), football.calls.Load())
	assert.Equal(t, int32(0), market.calls.Load())
	client.AssertExpectations(t)
}

func TestHandle_UnknownPersonaUsesDefault(t *testing.T) {
	football, market := newFakeEnrichers(enrich.Result{Text: "F"}, enrich.Result{Text: "M"})
	client := &MockLLMClient{}
	client.On("Send", mock.Anything, systemMessage("You are a helpful assistant.", "hi")).
		Return(&llm.LLMSendResponse{Content: "Hello!"}, nil).Once()

	reply, err := newTestOrchestrator(t, client, football, market).Handle(t.Context(), "unknownbot", "hi")

	require.NoError(t, err)
	assert.Equal(t, "Hello!", reply)
	assert.Equal(t, int32(0), football.calls.Load()+market.calls.Load())
	client.AssertExpectations(t)
}

func TestHandle_ContextAwarePersonaAppendsSections(t *testing.T) {
	football, market := newFakeEnrichers(
		enrich.Result{Text: "- Arsenal 2-1 Spurs\n", Status: enrich.StatusOK},
		enrich.Result{Text: "- BTC (bitcoin): $67,000\n", Status: enrich.StatusOK},
	)
	var sent []llm.Message
	client := &MockLLMClient{}
	client.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]llm.Message) }).
		Return(&llm.LLMSendResponse{Content: "btc is pumping bro"}, nil).Once()

	reply, err := newTestOrchestrator(t, client, football, market).Handle(t.Context(), "ANI", "what's btc at?")

	require.NoError(t, err)
	assert.Equal(t, "btc is pumping bro", reply)
	require.Len(t, sent, 2)
	expected := persona.ANI.Instruction +
		"\nFootball info:\n- Arsenal 2-1 Spurs\n" +
		"\nCrypto info:\n- BTC (bitcoin): $67,000\n"
	if diff := cmp.Diff(expected, sent[0].Content); diff != "" {
		t.Errorf("system message mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, llm.Message{Role: llm.User, Content: "what's btc at?"}, sent[1])
}

func TestComposeInstruction_BaseInstructionIsAlwaysThePrefix(t *testing.T) {
	tests := []struct {
		name        string
		football    enrich.Result
		market      enrich.Result
		contains    []string
		notContains []string
	}{
		{
			name:     "both failed",
			football: enrich.Result{Status: enrich.StatusFailed, Text: enrich.FOOTBALL_PLACEHOLDER, Err: errors.New("down")},
			market:   enrich.Result{Status: enrich.StatusFailed, Text: enrich.MARKET_PLACEHOLDER, Err: errors.New("down")},
			contains: []string{"Football info:\n" + enrich.FOOTBALL_PLACEHOLDER, "Crypto info:\n" + enrich.MARKET_PLACEHOLDER},
		},
		{
			name:        "football disabled",
			football:    enrich.Result{Status: enrich.StatusDisabled},
			market:      enrich.Result{Status: enrich.StatusOK, Text: "- ETH"},
			contains:    []string{"Crypto info:\n- ETH"},
			notContains: []string{"Football info:"},
		},
		{
			name:        "everything disabled",
			football:    enrich.Result{Status: enrich.StatusDisabled},
			market:      enrich.Result{Status: enrich.StatusDisabled},
			notContains: []string{"Football info:", "Crypto info:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			football, market := newFakeEnrichers(tt.football, tt.market)
			o := newTestOrchestrator(t, &MockLLMClient{}, football, market)

			instruction := o.ComposeInstruction(t.Context(), persona.ANI)

			assert.True(t, strings.HasPrefix(instruction, persona.ANI.Instruction))
			for _, s := range tt.contains {
				assert.Contains(t, instruction, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, instruction, s)
			}
			assert.Equal(t, int32(1), football.calls.Load())
			assert.Equal(t, int32(1), market.calls.Load())
		})
	}
}

func TestComposeInstruction_RestrictedSources(t *testing.T) {
	football, market := newFakeEnrichers(enrich.Result{Text: "F"}, enrich.Result{Text: "M"})
	registry := persona.NewRegistry(persona.Persona{ID: "TRADER", Instruction: "You trade.", ContextAware: true, Sources: []string{"market"}})
	o := NewOrchestrator(registry, &MockLLMClient{}, []enrich.Enricher{football, market}, zaptest.NewLogger(t))

	instruction := o.ComposeInstruction(t.Context(), registry.Lookup("TRADER"))

	assert.Equal(t, "You trade.\nCrypto info:\nM", instruction)
	assert.Equal(t, int32(0), football.calls.Load())
}

func TestHandle_RetriesOnceAndReturnsRetryReply(t *testing.T) {
	client := &MockLLMClient{}
	client.On("Send", mock.Anything, mock.Anything).Return(nil, errors.New("503 overloaded")).Once()
	client.On("Send", mock.Anything, mock.Anything).Return(&llm.LLMSendResponse{Content: "second time lucky"}, nil).Once()

	reply, err := newTestOrchestrator(t, client).Handle(t.Context(), "ARI", "hello")

	require.NoError(t, err)
	assert.Equal(t, "second time lucky", reply)
	client.AssertNumberOfCalls(t, "Send", 2)
	assert.Equal(t, client.Calls[0].Arguments.Get(1), client.Calls[1].Arguments.Get(1), "retry payload is identical")
}

func TestHandle_FailsAfterTwoAttempts(t *testing.T) {
	client := &MockLLMClient{}
	client.On("Send", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	reply, err := newTestOrchestrator(t, client).Handle(t.Context(), "ARI", "hello")

	assert.Empty(t, reply)
	require.ErrorIs(t, err, ErrUpstreamCompletionFailure)
	assert.Contains(t, err.Error(), "connection reset")
	client.AssertNumberOfCalls(t, "Send", MAX_COMPLETION_ATTEMPTS)
	assert.Equal(t, 2, MAX_COMPLETION_ATTEMPTS)
}

func TestHandle_SucceedsFirstTimeWithoutRetry(t *testing.T) {
	client := &MockLLMClient{}
	client.On("Send", mock.Anything, mock.Anything).Return(&llm.LLMSendResponse{Content: "ok"}, nil)

	_, err := newTestOrchestrator(t, client).Handle(t.Context(), "ARI", "hello")

	require.NoError(t, err)
	client.AssertNumberOfCalls(t, "Send", 1)
}
