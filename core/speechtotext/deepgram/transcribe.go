// Package deepgram transcribes recorded clips over Deepgram's streaming
// listen socket: the clip is streamed in, the stream is closed, and the
// finalized transcript segments are collected until the socket shuts down.
package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/grandrevier/concierge-core/core/audio"
	"github.com/grandrevier/concierge-core/core/speechtotext"
)

const clipFrameSize = 8192

type TranscriptionClient struct {
	model string
}

type TranscriptionClientOption func(*TranscriptionClient)

// WithModel overrides the default transcription model.
func WithModel(model string) TranscriptionClientOption {
	return func(c *TranscriptionClient) {
		if model != "" {
			c.model = model
		}
	}
}

func NewTranscriptionClient(opts ...TranscriptionClientOption) *TranscriptionClient {
	client := &TranscriptionClient{model: "nova-2"}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// TranscribeClip transcribes a complete recorded clip and returns the full
// transcript. The transcript may be empty when the clip holds no speech.
func (c *TranscriptionClient) TranscribeClip(ctx context.Context, clip []byte, opts ...speechtotext.TranscriptionOption) (string, error) {
	ctx, span := tracer.Start(ctx, "transcribe clip")
	defer span.End()
	span.SetAttributes(attribute.Int("clip.bytes", len(clip)))

	options := speechtotext.TranscriptionOptions{EncodingInfo: audio.GetDefaultEncodingInfo()}
	for _, opt := range opts {
		opt(&options)
	}

	conn, err := connectWebsocket(c.model, options.EncodingInfo)
	if err != nil {
		err = fmt.Errorf("%w: %w", speechtotext.ErrUnavailable, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	defer conn.Close()

	results := make(chan string, 1)
	go readAndCollectTranscript(conn, options, results)

	for offset := 0; offset < len(clip); offset += clipFrameSize {
		end := min(offset+clipFrameSize, len(clip))
		if err := conn.WriteMessage(websocket.BinaryMessage, clip[offset:end]); err != nil {
			err = fmt.Errorf("%w: failed to write to deepgram client: %w", speechtotext.ErrUnavailable, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return "", err
		}
	}

	if err := conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
		err = fmt.Errorf("%w: failed to close deepgram stream: %w", speechtotext.ErrUnavailable, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	select {
	case transcript := <-results:
		span.SetAttributes(attribute.Int("transcript.length", len(transcript)))
		return transcript, nil
	case <-ctx.Done():
		err = fmt.Errorf("%w: %w", speechtotext.ErrUnavailable, ctx.Err())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
}

func connectWebsocket(model string, encoding audio.EncodingInfo) (*websocket.Conn, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	listenURL, _ := url.Parse("wss://api.deepgram.com/v1/listen")
	queryParams := listenURL.Query()
	queryParams.Set("model", model)
	queryParams.Set("language", "en-US")
	queryParams.Set("smart_format", "true")
	if err := applyEncoding(queryParams, encoding); err != nil {
		return nil, fmt.Errorf("invalid encoding: %w", err)
	}

	listenURL.RawQuery = queryParams.Encode()
	conn, _, err := websocket.DefaultDialer.Dial(listenURL.String(),
		http.Header{"Authorization": {"Token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

func readAndCollectTranscript(conn *websocket.Conn, options speechtotext.TranscriptionOptions, results chan<- string) {
	var segments []string

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			// The server closes the socket once the stream is drained;
			// anything accumulated by then is the final transcript.
			results <- strings.TrimSpace(strings.Join(segments, " "))
			return
		}
		if msgType == websocket.BinaryMessage {
			continue
		}

		var parsedMsg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &parsedMsg); err != nil {
			logger.Warn("failed to unmarshal deepgram message", "error", err)
			continue
		}

		if api.TypeResponse(parsedMsg.Type) != api.TypeMessageResponse {
			continue
		}

		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			logger.Warn("failed to unmarshal deepgram message", "error", err)
			continue
		}
		if !msgResp.IsFinal || len(msgResp.Channel.Alternatives) == 0 {
			continue
		}

		segment := strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)
		if len(segment) == 0 {
			continue
		}

		segments = append(segments, segment)
		if options.PartialTranscriptionCallback != nil {
			options.PartialTranscriptionCallback(segment)
		}
	}
}
