package wire

// Request is one newline-delimited JSON request line.
type Request struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	// Audio is a base64-encoded recorded clip.
	Audio string `json:"audio,omitempty"`
}

const (
	RequestProcessText  = "PROCESS_TEXT"
	RequestProcessAudio = "PROCESS_AUDIO"
)

// Response is one newline-delimited JSON response line.
type Response struct {
	Type string `json:"type"`
	Text string `json:"text"`
	// Audio is a base64-encoded MP3 clip, set on TTS_AUDIO responses only.
	Audio string `json:"audio,omitempty"`
}

const (
	ResponseAssistantText = "ASSISTANT_TEXT"
	ResponseTTSAudio      = "TTS_AUDIO"
	ResponseError         = "ERROR"
)
