package deepgram

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/grandrevier/concierge-core/core/audio"
)

// applyEncoding sets the encoding query parameters for raw formats.
// Containerized clips carry their own framing and Deepgram detects their
// parameters, so no parameters are set for them.
func applyEncoding(query url.Values, encoding audio.EncodingInfo) error {
	if encoding.IsZero() || encoding.IsContainerized() {
		return nil
	}

	switch encoding.SampleRate {
	case 8000, 16000, 24000, 32000, 48000:
	default:
		return fmt.Errorf("unsupported sample rate")
	}

	switch encoding.Format {
	case audio.EncodingLinear16:
	case audio.EncodingALaw, audio.EncodingMulaw:
		if encoding.SampleRate != 8000 {
			return fmt.Errorf("unsupported sample rate for %s encoding", encoding.Format.Name())
		}
	default:
		return fmt.Errorf("unsupported encoding")
	}

	query.Set("encoding", encoding.Format.Name())
	query.Set("sample_rate", strconv.Itoa(encoding.SampleRate))
	query.Set("channels", "1")
	return nil
}
