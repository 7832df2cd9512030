package orchestration

import (
	"context"
	"fmt"

	"github.com/grandrevier/concierge-core/core/texttospeech"
)

type textToSpeech struct {
	// client stores the configured text-to-speech implementation.
	client TextToSpeech
}

func (t *textToSpeech) set(client TextToSpeech) {
	if t != nil {
		t.client = client
	}
}

func (t *textToSpeech) isConfigured() bool {
	return t != nil && t.client != nil
}

func (t *textToSpeech) Synthesize(ctx context.Context, text string, opts ...texttospeech.TextToSpeechOption) ([]byte, error) {
	if !t.isConfigured() {
		return nil, fmt.Errorf("%w: no text-to-speech client configured", texttospeech.ErrUnavailable)
	}

	return t.client.Synthesize(ctx, text, opts...)
}
