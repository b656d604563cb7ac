// Package chat turns a persona id and a user message into a single model
// reply, enriching the persona instruction with live data when the persona
// asks for it.
package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/klemjul/dobbychat/internal/enrich"
	"github.com/klemjul/dobbychat/internal/llm"
	"github.com/klemjul/dobbychat/internal/logging"
	"github.com/klemjul/dobbychat/internal/persona"
	"go.uber.org/zap"
)

// MAX_COMPLETION_ATTEMPTS is the whole failure policy for the model API: one
// call plus one immediate retry with the same payload.
const MAX_COMPLETION_ATTEMPTS = 2

// ErrUpstreamCompletionFailure is returned once every completion attempt failed.
var ErrUpstreamCompletionFailure = errors.New("upstream completion failure")

type PersonaLookup interface {
	Lookup(id string) persona.Persona
}

type Orchestrator struct {
	personas  PersonaLookup
	client    llm.LLMClient
	enrichers []enrich.Enricher
	logger    *zap.Logger
}

func NewOrchestrator(personas PersonaLookup, client llm.LLMClient, enrichers []enrich.Enricher, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		personas:  personas,
		client:    client,
		enrichers: enrichers,
		logger:    logger,
	}
}

// Handle is stateless: nothing survives between two calls.
func (o *Orchestrator) Handle(ctx context.Context, personaID string, message string) (string, error) {
	p := o.personas.Lookup(personaID)
	logger := logging.For(ctx, o.logger).With(zap.String("persona", p.ID))

	instruction := o.ComposeInstruction(ctx, p)
	messages := []llm.Message{
		{Role: llm.System, Content: instruction},
		{Role: llm.User, Content: message},
	}
	logger.Debug("sending completion request",
		zap.Int("prompt_tokens_estimate", llm.RoughEstimateTokens(instruction+message)))

	var lastErr error
	for attempt := 1; attempt <= MAX_COMPLETION_ATTEMPTS; attempt++ {
		res, err := o.client.Send(ctx, messages)
		if err == nil {
			if attempt > 1 {
				logger.Info("completion retry succeeded", zap.Int("attempt", attempt))
			}
			logger.Debug("completion received",
				zap.Int64("input_tokens", res.Usage.InputTokens),
				zap.Int64("output_tokens", res.Usage.OutputTokens))
			return res.Content, nil
		}
		lastErr = err
		if attempt < MAX_COMPLETION_ATTEMPTS {
			logger.Warn("completion attempt failed, retrying once", zap.Int("attempt", attempt), zap.Error(err))
		}
	}

	logger.Error("final failure talking to the model", zap.Error(lastErr))
	return "", fmt.Errorf("%w after %d attempts: %w", ErrUpstreamCompletionFailure, MAX_COMPLETION_ATTEMPTS, lastErr)
}

// ComposeInstruction returns the persona instruction followed by the text of
// every enricher the persona wants. Enrichers run concurrently; disabled ones
// add nothing and failed ones add their placeholder.
func (o *Orchestrator) ComposeInstruction(ctx context.Context, p persona.Persona) string {
	builder := NewPromptBuilder(p.Instruction)
	if !p.ContextAware {
		return builder.String()
	}

	var selected []enrich.Enricher
	for _, e := range o.enrichers {
		if p.WantsSource(e.Name()) {
			selected = append(selected, e)
		}
	}

	logger := logging.For(ctx, o.logger)
	for i, res := range enrich.Gather(ctx, selected) {
		logger.Debug("context enrichment", zap.String("source", res.Source), zap.Stringer("status", res.Status))
		if res.Status == enrich.StatusDisabled {
			continue
		}
		builder.AddSection(res.Source, selected[i].Heading(), res.Text)
	}
	return builder.String()
}
