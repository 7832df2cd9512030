package orchestration

import (
	"context"

	"github.com/grandrevier/concierge-core/core/llms"
	"github.com/grandrevier/concierge-core/core/speechtotext"
	"github.com/grandrevier/concierge-core/core/texttospeech"
	"github.com/grandrevier/concierge-core/core/tools"
)

type OrchestratorOption func(*Orchestrator)

// WithLLM sets the reasoning client used for every turn.
func WithLLM(client LLM) OrchestratorOption {
	return func(o *Orchestrator) {
		o.llm.set(client)
	}
}

// SpeechToText transcribes a complete recorded clip.
type SpeechToText interface {
	TranscribeClip(ctx context.Context, clip []byte, opts ...speechtotext.TranscriptionOption) (string, error)
}

func WithSpeechToTextClient(client SpeechToText) OrchestratorOption {
	return func(o *Orchestrator) {
		o.speechToText.set(client)
	}
}

// TextToSpeech synthesizes a reply into a playable clip.
type TextToSpeech interface {
	Synthesize(ctx context.Context, text string, opts ...texttospeech.TextToSpeechOption) ([]byte, error)
}

func WithTextToSpeechClient(client TextToSpeech) OrchestratorOption {
	return func(o *Orchestrator) {
		o.textToSpeech.set(client)
	}
}

// WithSystemPrompt seeds the session with the given persona instead of the
// default one. The session is recreated, so this only makes sense before the
// first turn.
func WithSystemPrompt(prompt string) OrchestratorOption {
	return func(o *Orchestrator) {
		if prompt != "" {
			o.session = NewSession(prompt)
		}
	}
}

// WithToolRegistry replaces the orchestrator's tool catalog.
func WithToolRegistry(registry *tools.Registry) OrchestratorOption {
	return func(o *Orchestrator) {
		if registry != nil {
			o.registry = registry
		}
	}
}

// WithTools registers tools into the orchestrator's catalog, keeping the
// order they are passed in. Duplicate names are skipped with a warning.
func WithTools(catalog ...llms.Tool) OrchestratorOption {
	return func(o *Orchestrator) {
		for _, tool := range catalog {
			if err := o.registry.Register(tool); err != nil {
				logger.Warn("skipping tool registration", "tool", tool.Name, "error", err)
			}
		}
	}
}
