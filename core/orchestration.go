// Package orchestration drives kiosk conversation turns: it owns the session
// log, decides when the assistant's tool calls run, folds their results back
// into the conversation, and sequences the transcribe/reason/synthesize
// pipeline for voice turns.
package orchestration

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/grandrevier/concierge-core/core/llms"
	"github.com/grandrevier/concierge-core/core/tools"
)

const defaultSystemPrompt = "You are a helpful assistant. Keep responses concise."

// LLM is the opaque reasoning capability: given ordered history and a tool
// catalog it produces either a final answer or tool call requests.
type LLM interface {
	Respond(ctx context.Context, history []llms.Message, catalog []llms.Tool) (*llms.Response, error)
}

type Orchestrator struct {
	session  *Session
	registry *tools.Registry

	// llm is the reasoning facade used to handle optional client wiring.
	llm llm
	// speechToText is the STT facade used to handle optional client wiring.
	speechToText speechToText
	// textToSpeech is the TTS facade used to handle optional client wiring.
	textToSpeech textToSpeech
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	registry, _ := tools.NewRegistry()
	o := &Orchestrator{
		session:  NewSession(defaultSystemPrompt),
		registry: registry,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Session returns the orchestrator's conversation session.
func (o *Orchestrator) Session() *Session {
	return o.session
}

// Catalog returns the tools available to the assistant, in stable order.
func (o *Orchestrator) Catalog() []llms.Tool {
	return o.registry.Catalog()
}

// RespondTo runs one full conversation turn for typed guest input and
// returns the assistant's final text. Tool failures surface to the model as
// error text, not to the caller; only reasoning failures abort the turn.
func (o *Orchestrator) RespondTo(ctx context.Context, input string) (string, error) {
	ctx, span := tracer.Start(ctx, "conversation turn")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", o.session.ID()))

	if !o.llm.isConfigured() {
		err := fmt.Errorf("no reasoning client configured")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	o.session.AppendUser(input)

	var final string
	for stage := turnStageReason; stage != turnStageDone; {
		var err error
		if stage, final, err = o.advanceTurn(ctx, stage); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return "", err
		}
	}

	span.SetAttributes(attribute.Int("turn.response_length", len(final)))
	return final, nil
}
