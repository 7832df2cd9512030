package audio

const (
	DefaultSampleRate = 16000
	DefaultFormat     = "webm"
)

// GetDefaultEncodingInfo describes the format kiosk recordings arrive in.
func GetDefaultEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultSampleRate, Format: encodingFormat(DefaultFormat)}
}

// EncodingInfo describes a clip's audio encoding. For containerized formats
// the sample rate is carried inside the container and SampleRate is
// advisory.
type EncodingInfo struct {
	SampleRate int
	Format     encodingFormat
}

func (e EncodingInfo) IsZero() bool {
	return e.Format.Name() == ""
}

// IsContainerized reports whether the format carries its own framing, in
// which case the transcription service detects parameters itself.
func (e EncodingInfo) IsContainerized() bool {
	switch e.Format {
	case EncodingWAV, EncodingWebM, EncodingOgg:
		return true
	}
	return false
}

type encodingFormat string

func (e encodingFormat) Name() string {
	return string(e)
}

const (
	EncodingMulaw    encodingFormat = "mulaw"
	EncodingALaw     encodingFormat = "alaw"
	EncodingLinear16 encodingFormat = "linear16"
	EncodingWAV      encodingFormat = "wav"
	EncodingWebM     encodingFormat = "webm"
	EncodingOgg      encodingFormat = "ogg"
)
