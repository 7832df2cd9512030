package orchestration

import (
	"context"
	"fmt"

	"github.com/grandrevier/concierge-core/core/speechtotext"
)

type speechToText struct {
	// client stores the configured speech-to-text implementation.
	client SpeechToText
}

func (s *speechToText) set(client SpeechToText) {
	if s != nil {
		s.client = client
	}
}

func (s *speechToText) isConfigured() bool {
	return s != nil && s.client != nil
}

func (s *speechToText) TranscribeClip(ctx context.Context, clip []byte, opts ...speechtotext.TranscriptionOption) (string, error) {
	if !s.isConfigured() {
		return "", fmt.Errorf("%w: no speech-to-text client configured", speechtotext.ErrUnavailable)
	}

	return s.client.TranscribeClip(ctx, clip, opts...)
}
