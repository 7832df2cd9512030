// Package deepgram synthesizes speech through Deepgram's speak endpoint.
// Audio comes back as MP3 so it can be handed to the kiosk untouched.
package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"slices"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/grandrevier/concierge-core/core/texttospeech"
)

const speakURL = "https://api.deepgram.com/v1/speak"

// chunkSize is the granularity audio is surfaced to the chunk callback at.
const chunkSize = 4096

type deepgramVoice string

const (
	VoiceThalia  deepgramVoice = "aura-2-thalia-en"
	VoiceAsteria deepgramVoice = "aura-2-asteria-en"
	VoiceOrion   deepgramVoice = "aura-2-orion-en"
	VoiceLuna    deepgramVoice = "aura-2-luna-en"

	defaultVoice = VoiceThalia
)

func GetAvailableVoices() []deepgramVoice {
	return []deepgramVoice{VoiceThalia, VoiceAsteria, VoiceOrion, VoiceLuna}
}

// ParseVoice maps a voice id to a known voice, falling back to the default
// for an empty id.
func ParseVoice(id string) (deepgramVoice, error) {
	if id == "" {
		return defaultVoice, nil
	}
	voice := deepgramVoice(id)
	if !slices.Contains(GetAvailableVoices(), voice) {
		return defaultVoice, fmt.Errorf("invalid voice: %s", id)
	}
	return voice, nil
}

type TextToSpeechClient struct {
	voice      deepgramVoice
	httpClient *http.Client
}

func NewTextToSpeechClient(ctx context.Context, voice deepgramVoice) (*TextToSpeechClient, error) {
	client := &TextToSpeechClient{
		voice: defaultVoice,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}

	if !slices.Contains(GetAvailableVoices(), voice) {
		return nil, fmt.Errorf("invalid voice")
	}
	client.voice = voice

	return client, nil
}

func (c *TextToSpeechClient) SetVoice(voice deepgramVoice) {
	c.voice = voice
}

// Synthesize turns text into an MP3 clip. The service streams the clip; it
// is surfaced chunk by chunk through the configured callback and returned
// concatenated.
func (c *TextToSpeechClient) Synthesize(ctx context.Context, text string, opts ...texttospeech.TextToSpeechOption) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "synthesize speech")
	defer span.End()
	span.SetAttributes(
		attribute.String("tts.voice", string(c.voice)),
		attribute.Int("tts.text_length", len(text)),
	)

	options := texttospeech.TextToSpeechOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	clip, err := c.synthesize(ctx, text, options)
	if err != nil {
		err = fmt.Errorf("%w: %w", texttospeech.ErrUnavailable, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("tts.audio_bytes", len(clip)))
	return clip, nil
}

func (c *TextToSpeechClient) synthesize(ctx context.Context, text string, options texttospeech.TextToSpeechOptions) ([]byte, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	requestBodyBytes, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return nil, fmt.Errorf("error marshalling JSON: %w", err)
	}

	urlValues := url.Values{}
	urlValues.Set("model", string(c.voice))
	urlValues.Set("encoding", "mp3")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		speakURL+"?"+urlValues.Encode(), bytes.NewReader(requestBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-OK HTTP status: %s", resp.Status)
	}

	var clip []byte
	chunk := make([]byte, chunkSize)
	for {
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			clip = append(clip, chunk[:n]...)
			if options.SpeechAudioCallback != nil {
				options.SpeechAudioCallback(chunk[:n])
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading audio stream: %w", err)
		}
	}

	return clip, nil
}
