package speechtotext

import (
	"errors"

	"github.com/grandrevier/concierge-core/core/audio"
)

// ErrUnavailable signals that the transcription service could not be reached
// or rejected the clip.
var ErrUnavailable = errors.New("transcription service unavailable")

type TranscriptionOptions struct {
	// PartialTranscriptionCallback is called for each finalized transcript
	// segment as it arrives.
	PartialTranscriptionCallback func(transcript string)

	EncodingInfo audio.EncodingInfo
}

type TranscriptionOption func(*TranscriptionOptions)

func WithPartialTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.PartialTranscriptionCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.EncodingInfo = encodingInfo
	}
}
