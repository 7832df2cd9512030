package texttospeech

import "errors"

// ErrUnavailable signals that the synthesis service could not be reached or
// rejected the text.
var ErrUnavailable = errors.New("synthesis service unavailable")

type TextToSpeechOptions struct {
	// SpeechAudioCallback is called for each audio chunk as the service
	// produces it. The full clip is still returned once synthesis ends.
	SpeechAudioCallback func(audio []byte)
}

type TextToSpeechOption func(*TextToSpeechOptions)

func WithSpeechAudioCallback(callback func([]byte)) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		o.SpeechAudioCallback = callback
	}
}
