package deepgram

import (
	"strings"

	"ttsgateway/internal/tts/inter"
)

// speakParams are the query parameters of /v1/speak. Compressed formats
// carry a bit rate instead of a sample rate.
type speakParams struct {
	Model      string
	Encoding   string
	Container  string
	SampleRate uint32
	BitRate    uint32
}

func defaultSpeakParams() speakParams {
	return speakParams{
		Encoding:   "linear16",
		Container:  "wav",
		SampleRate: 24000,
	}
}

var supportedSampleRates = []uint32{8000, 16000, 24000, 32000, 48000}

// paramsForOptions maps the uniform synthesis options onto Deepgram's query
// parameters, clamping unsupported sample rates to 24kHz.
func paramsForOptions(options inter.SynthesisOptions) speakParams {
	params := defaultSpeakParams()
	params.Model = options.VoiceID

	cfg := options.AudioConfig
	if cfg == nil {
		return params
	}

	encoding, container, defaultRate, bitRate := formatParams(cfg.Format)
	params.Encoding = encoding
	params.Container = container
	params.BitRate = bitRate

	if compressed(cfg.Format) {
		// The API derives the rate from the codec for compressed output.
		params.SampleRate = 0
		return params
	}

	params.SampleRate = defaultRate
	if cfg.SampleRate != 0 {
		params.SampleRate = 24000
		for _, rate := range supportedSampleRates {
			if cfg.SampleRate == rate {
				params.SampleRate = cfg.SampleRate
				break
			}
		}
	}
	return params
}

func compressed(format inter.AudioFormat) bool {
	switch format {
	case inter.FormatMp3, inter.FormatOggOpus, inter.FormatAac:
		return true
	}
	return false
}

// formatParams returns encoding, container, nominal sample rate, and bit
// rate for each uniform format.
func formatParams(format inter.AudioFormat) (string, string, uint32, uint32) {
	switch format {
	case inter.FormatMp3:
		return "mp3", "", 22050, 48000
	case inter.FormatWav:
		return "linear16", "wav", 24000, 0
	case inter.FormatPcm:
		return "linear16", "", 24000, 0
	case inter.FormatOggOpus:
		return "opus", "ogg", 48000, 12000
	case inter.FormatAac:
		return "aac", "", 22050, 48000
	case inter.FormatFlac:
		return "flac", "", 48000, 0
	case inter.FormatMulaw:
		return "mulaw", "wav", 8000, 0
	case inter.FormatAlaw:
		return "alaw", "wav", 8000, 0
	default:
		return "linear16", "wav", 24000, 0
	}
}

// estimateDuration derives playback time from 16-bit PCM byte counts at the
// nominal rate.
func estimateDuration(audio []byte, sampleRate uint32) float32 {
	if len(audio) == 0 {
		return 0
	}

	var bytesPerSecond uint32
	switch sampleRate {
	case 8000:
		bytesPerSecond = 16000
	case 16000:
		bytesPerSecond = 32000
	case 22050:
		bytesPerSecond = 44100
	case 24000:
		bytesPerSecond = 48000
	case 48000:
		bytesPerSecond = 96000
	default:
		bytesPerSecond = 48000
	}
	return float32(len(audio)) / float32(bytesPerSecond)
}

func parseGender(s string) inter.VoiceGender {
	switch strings.ToLower(s) {
	case "feminine", "female":
		return inter.GenderFemale
	case "masculine", "male":
		return inter.GenderMale
	}
	return inter.GenderNeutral
}

// inferQuality treats the second-generation aura-2- models as premium.
func inferQuality(voiceID string) inter.VoiceQuality {
	if strings.HasPrefix(voiceID, "aura-2-") {
		return inter.QualityPremium
	}
	return inter.QualityStandard
}

// normalizeLanguageCode collapses regional variants to their base language.
func normalizeLanguageCode(code string) string {
	lower := strings.ToLower(code)
	switch lower {
	case "en-us", "en-gb", "en-au", "en-ph", "en-ie":
		return "en"
	case "es-es", "es-mx", "es-co", "es-419":
		return "es"
	}
	if len(lower) > 2 {
		return lower[:2]
	}
	return lower
}
