// Package inter defines the uniform types and capability interfaces that
// every TTS provider adapter implements.
package inter

import "strings"

type VoiceGender string

const (
	GenderFemale  VoiceGender = "female"
	GenderMale    VoiceGender = "male"
	GenderNeutral VoiceGender = "neutral"
)

type VoiceQuality string

const (
	QualityStandard VoiceQuality = "standard"
	QualityNeural   VoiceQuality = "neural"
	QualityPremium  VoiceQuality = "premium"
)

type AudioFormat string

const (
	FormatMp3     AudioFormat = "mp3"
	FormatWav     AudioFormat = "wav"
	FormatPcm     AudioFormat = "pcm"
	FormatOggOpus AudioFormat = "ogg_opus"
	FormatAac     AudioFormat = "aac"
	FormatFlac    AudioFormat = "flac"
	FormatMulaw   AudioFormat = "mulaw"
	FormatAlaw    AudioFormat = "alaw"
)

type TextKind string

const (
	TextPlain TextKind = "text"
	TextSsml  TextKind = "ssml"
)

// VoiceInfo describes one voice in provider-neutral terms.
type VoiceInfo struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Language            string       `json:"language"`
	AdditionalLanguages []string     `json:"additional_languages"`
	Gender              VoiceGender  `json:"gender"`
	Quality             VoiceQuality `json:"quality"`
	Description         string       `json:"description,omitempty"`
	Provider            string       `json:"provider"`
	SampleRate          uint32       `json:"sample_rate"`
	IsCustom            bool         `json:"is_custom"`
	IsCloned            bool         `json:"is_cloned"`
	PreviewURL          string       `json:"preview_url,omitempty"`
	UseCases            []string     `json:"use_cases"`
}

type LanguageInfo struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
	VoiceCount uint32 `json:"voice_count"`
}

// VoiceFilter narrows voice listings. Empty fields match everything.
type VoiceFilter struct {
	Language string       `json:"language,omitempty"`
	Gender   VoiceGender  `json:"gender,omitempty"`
	Quality  VoiceQuality `json:"quality,omitempty"`
}

// Matches reports whether the voice passes the filter. A nil filter matches
// every voice. The language filter is a prefix match, so "en" covers every
// regional variant ("en-US", "en-GB").
func (f *VoiceFilter) Matches(v VoiceInfo) bool {
	if f == nil {
		return true
	}
	if f.Language != "" && !strings.HasPrefix(v.Language, f.Language) {
		return false
	}
	if f.Gender != "" && v.Gender != f.Gender {
		return false
	}
	if f.Quality != "" && v.Quality != f.Quality {
		return false
	}
	return true
}

// MatchesQuery reports whether the voice matches a case-insensitive
// substring search over its name, description and use cases.
func (v VoiceInfo) MatchesQuery(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(v.Name), q) ||
		strings.Contains(strings.ToLower(v.Description), q) {
		return true
	}
	for _, useCase := range v.UseCases {
		if strings.Contains(strings.ToLower(useCase), q) {
			return true
		}
	}
	return false
}

// TextInput is the text to synthesize. Language is an optional hint.
type TextInput struct {
	Content  string   `json:"content"`
	Kind     TextKind `json:"kind"`
	Language string   `json:"language,omitempty"`
}

// AudioConfig selects the output encoding. SampleRate 0 means provider
// default.
type AudioConfig struct {
	Format     AudioFormat `json:"format"`
	SampleRate uint32      `json:"sample_rate,omitempty"`
	BitRate    uint32      `json:"bit_rate,omitempty"`
}

// VoiceSettings are fine-tuning knobs honored by providers that support
// them. All values are in [0, 1].
type VoiceSettings struct {
	Stability       float32 `json:"stability"`
	SimilarityBoost float32 `json:"similarity_boost"`
	Style           float32 `json:"style"`
}

type SynthesisOptions struct {
	VoiceID       string         `json:"voice_id"`
	AudioConfig   *AudioConfig   `json:"audio_config,omitempty"`
	VoiceSettings *VoiceSettings `json:"voice_settings,omitempty"`
}

type SynthesisMetadata struct {
	DurationSeconds float32 `json:"duration_seconds"`
	CharacterCount  uint32  `json:"character_count"`
	WordCount       uint32  `json:"word_count"`
	AudioSizeBytes  uint32  `json:"audio_size_bytes"`
	RequestID       string  `json:"request_id"`
	ProviderInfo    string  `json:"provider_info,omitempty"`
}

type SynthesisResult struct {
	AudioData []byte            `json:"audio_data"`
	Metadata  SynthesisMetadata `json:"metadata"`
}

type ValidationResult struct {
	IsValid           bool     `json:"is_valid"`
	CharacterCount    uint32   `json:"character_count"`
	EstimatedDuration float32  `json:"estimated_duration"`
	Warnings          []string `json:"warnings"`
	Errors            []string `json:"errors"`
}

// TimingInfo is one synthesis timing mark: when a word or sentence starts
// in the audio and where it sits in the source text.
type TimingInfo struct {
	TimeMs      uint32 `json:"time_ms"`
	MarkType    string `json:"mark_type"`
	Text        string `json:"text"`
	StartOffset uint32 `json:"start_offset"`
	EndOffset   uint32 `json:"end_offset"`
}

// AudioChunk is one piece of streamed audio, delivered in order.
type AudioChunk struct {
	Data     []byte `json:"data"`
	Sequence uint32 `json:"sequence"`
	IsFinal  bool   `json:"is_final"`
}

// StreamSession is the handle returned by CreateStream.
type StreamSession struct {
	SessionID  string `json:"session_id"`
	Model      string `json:"model"`
	Encoding   string `json:"encoding"`
	SampleRate uint32 `json:"sample_rate"`
}

type StreamState string

const (
	StateConnecting StreamState = "connecting"
	StateActive     StreamState = "active"
	StateFinished   StreamState = "finished"
	StateError      StreamState = "error"
)

type StreamStatus struct {
	Status           StreamState `json:"status"`
	IsActive         bool        `json:"is_active"`
	HasPendingChunks bool        `json:"has_pending_chunks"`
	Error            string      `json:"error,omitempty"`
}

// AudioSample is reference audio for voice cloning.
type AudioSample struct {
	Name   string      `json:"name"`
	Data   []byte      `json:"data"`
	Format AudioFormat `json:"format"`
}

type VoiceDesignParams struct {
	Language string      `json:"language,omitempty"`
	Gender   VoiceGender `json:"gender,omitempty"`
	Age      string      `json:"age,omitempty"`
	Accent   string      `json:"accent,omitempty"`
	Style    string      `json:"style,omitempty"`
}

type PronunciationEntry struct {
	Word          string `json:"word"`
	Pronunciation string `json:"pronunciation"`
}

type LongFormJob struct {
	JobID          string `json:"job_id"`
	Status         string `json:"status"`
	OutputLocation string `json:"output_location"`
}

type LongFormResult struct {
	JobID           string  `json:"job_id"`
	Status          string  `json:"status"`
	OutputLocation  string  `json:"output_location"`
	Progress        float32 `json:"progress"`
	DurationSeconds float32 `json:"duration_seconds,omitempty"`
}
