// Package wire serves the kiosk's newline-delimited JSON protocol over an
// input/output stream pair. One request line yields at most one response
// line, written and flushed before the next line is read, so response order
// always matches request order.
package wire

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	orchestration "github.com/grandrevier/concierge-core/core"
)

// maxLineSize bounds one request line. Recorded clips arrive base64-encoded
// inline, so lines can run to megabytes.
const maxLineSize = 32 * 1024 * 1024

// Conversationalist handles the two kinds of guest turns. Implemented by
// the orchestrator.
type Conversationalist interface {
	RespondTo(ctx context.Context, input string) (string, error)
	RespondToVoice(ctx context.Context, clip []byte) orchestration.VoiceReply
}

type Server struct {
	in      io.Reader
	out     io.Writer
	handler Conversationalist
}

func NewServer(in io.Reader, out io.Writer, handler Conversationalist) *Server {
	return &Server{in: in, out: out, handler: handler}
}

// Serve reads request lines until the input stream ends or the context is
// cancelled. Requests are handled strictly sequentially: a turn runs to
// completion, external round trips included, before the next line is read.
// Malformed lines and unknown request types are logged and dropped without a
// response; they never stop the loop.
func (s *Server) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	writer := bufio.NewWriter(s.out)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var request Request
		if err := json.Unmarshal(line, &request); err != nil {
			logger.WarnContext(ctx, "dropping malformed request line", "error", err)
			continue
		}

		response, ok := s.handle(ctx, request)
		if !ok {
			continue
		}

		if err := writeResponse(writer, response); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read request stream: %w", err)
	}
	return nil
}

func (s *Server) handle(ctx context.Context, request Request) (Response, bool) {
	switch request.Type {
	case RequestProcessText:
		ctx, span := tracer.Start(ctx, "text request")
		defer span.End()
		return s.handleText(ctx, request.Text), true

	case RequestProcessAudio:
		ctx, span := tracer.Start(ctx, "audio request")
		defer span.End()
		return s.handleAudio(ctx, request.Audio), true

	default:
		logger.WarnContext(ctx, "ignoring unknown request type", "type", request.Type)
		return Response{}, false
	}
}

func (s *Server) handleText(ctx context.Context, text string) Response {
	reply, err := s.handler.RespondTo(ctx, text)
	if err != nil {
		logger.ErrorContext(ctx, "text turn failed", "error", err)
		return Response{Type: ResponseError, Text: "Sorry, something went wrong."}
	}

	return Response{Type: ResponseAssistantText, Text: reply}
}

func (s *Server) handleAudio(ctx context.Context, encoded string) Response {
	clip, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		// Decoding is the first pipeline stage; its failure degrades to
		// the same polite fallback as any other stage.
		logger.ErrorContext(ctx, "failed to decode audio payload", "error", err)
		return Response{Type: ResponseAssistantText, Text: orchestration.VoiceFallbackReply}
	}

	reply := s.handler.RespondToVoice(ctx, clip)
	if len(reply.Audio) == 0 {
		return Response{Type: ResponseAssistantText, Text: reply.Text}
	}

	return Response{
		Type:  ResponseTTSAudio,
		Text:  reply.Text,
		Audio: base64.StdEncoding.EncodeToString(reply.Audio),
	}
}

func writeResponse(writer *bufio.Writer, response Response) error {
	encoded, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("error marshalling JSON: %w", err)
	}

	if _, err := writer.Write(append(encoded, '\n')); err != nil {
		return err
	}
	return writer.Flush()
}
