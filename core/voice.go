package orchestration

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// EmptyTranscriptReply is returned when the clip holds no usable
	// speech. No synthesis happens for it.
	EmptyTranscriptReply = "I didn't hear anything."
	// VoiceFallbackReply is the guest-facing response when any voice
	// pipeline stage fails. The underlying cause only goes to the log.
	VoiceFallbackReply = "I'm having trouble hearing you clearly."
)

// VoiceReply is the outcome of a voice turn. Audio is nil when the pipeline
// fell back to a text-only response.
type VoiceReply struct {
	Text  string
	Audio []byte
}

// RespondToVoice runs a full voice turn: transcribe the clip, run the
// conversation turn on the transcript, synthesize the reply. Stage failures
// never surface to the guest channel; they degrade to a fixed polite text
// reply.
func (o *Orchestrator) RespondToVoice(ctx context.Context, clip []byte) VoiceReply {
	ctx, span := tracer.Start(ctx, "voice turn")
	defer span.End()
	span.SetAttributes(attribute.Int("clip.bytes", len(clip)))

	transcript, err := o.speechToText.TranscribeClip(ctx, clip)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "voice turn transcription failed", "error", err)
		return VoiceReply{Text: VoiceFallbackReply}
	}

	transcript = strings.TrimSpace(transcript)
	if transcript == "" || transcript == "None" {
		span.SetAttributes(attribute.Bool("transcript.empty", true))
		return VoiceReply{Text: EmptyTranscriptReply}
	}
	span.SetAttributes(attribute.String("transcript", transcript))

	reply, err := o.RespondTo(ctx, transcript)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "voice turn reasoning failed", "error", err)
		return VoiceReply{Text: VoiceFallbackReply}
	}

	audio, err := o.textToSpeech.Synthesize(ctx, reply)
	if err != nil {
		// The conversation already advanced; deliver the reply as text.
		span.RecordError(err)
		logger.ErrorContext(ctx, "voice turn synthesis failed", "error", err)
		return VoiceReply{Text: reply}
	}

	span.SetAttributes(attribute.Int("reply.audio_bytes", len(audio)))
	return VoiceReply{Text: reply, Audio: audio}
}
