package inter

import "context"

// Voices covers voice catalog operations.
type Voices interface {
	ListVoices(ctx context.Context, filter *VoiceFilter) ([]VoiceInfo, error)
	GetVoice(ctx context.Context, voiceID string) (VoiceInfo, error)
	SearchVoices(ctx context.Context, query string, filter *VoiceFilter) ([]VoiceInfo, error)
	ListLanguages(ctx context.Context) ([]LanguageInfo, error)
}

// Synthesis covers one-shot synthesis. ValidateInput is a pure length and
// character check; it never touches the network.
type Synthesis interface {
	Synthesize(ctx context.Context, input TextInput, options SynthesisOptions) (SynthesisResult, error)
	SynthesizeBatch(ctx context.Context, inputs []TextInput, options SynthesisOptions) ([]SynthesisResult, error)
	GetTimingMarks(ctx context.Context, input TextInput, voiceID string) ([]TimingInfo, error)
	ValidateInput(input TextInput, voiceID string) (ValidationResult, error)
}

// Streaming covers incremental synthesis sessions. Providers without a
// streaming protocol embed UnsupportedStreaming.
type Streaming interface {
	CreateStream(ctx context.Context, options SynthesisOptions) (StreamSession, error)
	StreamSendText(ctx context.Context, sessionID string, input TextInput) error
	StreamFinish(ctx context.Context, sessionID string) error
	StreamReceiveChunk(ctx context.Context, sessionID string) (*AudioChunk, error)
	StreamHasPending(sessionID string) (bool, error)
	StreamGetStatus(sessionID string) (StreamStatus, error)
	StreamClose(sessionID string) error
}

// Advanced covers the long tail of provider features. Most providers
// support only a subset and embed UnsupportedAdvanced for the rest.
type Advanced interface {
	CreateVoiceClone(ctx context.Context, name string, samples []AudioSample, description string) (string, error)
	DesignVoice(ctx context.Context, name string, params VoiceDesignParams) (string, error)
	ConvertVoice(ctx context.Context, inputAudio []byte, targetVoiceID string, preserveTiming bool) ([]byte, error)
	GenerateSoundEffect(ctx context.Context, description string, durationSeconds, styleInfluence float32) ([]byte, error)
	CreateLexicon(ctx context.Context, name, language string, entries []PronunciationEntry) (string, error)
	AddLexiconEntry(ctx context.Context, lexiconID string, entry PronunciationEntry) error
	RemoveLexiconEntry(ctx context.Context, lexiconID, word string) error
	ExportLexicon(ctx context.Context, lexiconID string) (string, error)
	SynthesizeLongForm(ctx context.Context, content, voiceID, outputLocation string, chapterBreaks []uint32) (LongFormJob, error)
	GetLongFormStatus(ctx context.Context, jobID string) (LongFormResult, error)
	CancelLongForm(ctx context.Context, jobID string) error
}

// Provider is the full uniform surface.
type Provider interface {
	Name() string
	MaxInputChars() uint32
	Voices
	Synthesis
	Streaming
	Advanced
}
