package inter

import (
	"context"

	"ttsgateway/internal/platform/errors"
)

// UnsupportedStreaming satisfies Streaming for providers without a
// streaming protocol. Every method fails with unsupported-operation.
type UnsupportedStreaming struct {
	ProviderName string
}

func (u UnsupportedStreaming) err(op string) error {
	return errors.Unsupported(op, u.ProviderName+" does not support streaming synthesis")
}

func (u UnsupportedStreaming) CreateStream(context.Context, SynthesisOptions) (StreamSession, error) {
	return StreamSession{}, u.err("create_stream")
}

func (u UnsupportedStreaming) StreamSendText(context.Context, string, TextInput) error {
	return u.err("stream_send_text")
}

func (u UnsupportedStreaming) StreamFinish(context.Context, string) error {
	return u.err("stream_finish")
}

func (u UnsupportedStreaming) StreamReceiveChunk(context.Context, string) (*AudioChunk, error) {
	return nil, u.err("stream_receive_chunk")
}

func (u UnsupportedStreaming) StreamHasPending(string) (bool, error) {
	return false, u.err("stream_has_pending")
}

func (u UnsupportedStreaming) StreamGetStatus(string) (StreamStatus, error) {
	return StreamStatus{}, u.err("stream_get_status")
}

func (u UnsupportedStreaming) StreamClose(string) error {
	return u.err("stream_close")
}

// UnsupportedAdvanced satisfies Advanced for providers without any of the
// advanced features. Providers supporting a subset embed it and override
// the supported methods.
type UnsupportedAdvanced struct {
	ProviderName string
}

func (u UnsupportedAdvanced) err(op, feature string) error {
	return errors.Unsupported(op, u.ProviderName+" does not support "+feature)
}

func (u UnsupportedAdvanced) CreateVoiceClone(context.Context, string, []AudioSample, string) (string, error) {
	return "", u.err("create_voice_clone", "voice cloning")
}

func (u UnsupportedAdvanced) DesignVoice(context.Context, string, VoiceDesignParams) (string, error) {
	return "", u.err("design_voice", "voice design")
}

func (u UnsupportedAdvanced) ConvertVoice(context.Context, []byte, string, bool) ([]byte, error) {
	return nil, u.err("convert_voice", "voice conversion")
}

func (u UnsupportedAdvanced) GenerateSoundEffect(context.Context, string, float32, float32) ([]byte, error) {
	return nil, u.err("generate_sound_effect", "sound effect generation")
}

func (u UnsupportedAdvanced) CreateLexicon(context.Context, string, string, []PronunciationEntry) (string, error) {
	return "", u.err("create_lexicon", "lexicons")
}

func (u UnsupportedAdvanced) AddLexiconEntry(context.Context, string, PronunciationEntry) error {
	return u.err("add_lexicon_entry", "lexicons")
}

func (u UnsupportedAdvanced) RemoveLexiconEntry(context.Context, string, string) error {
	return u.err("remove_lexicon_entry", "lexicons")
}

func (u UnsupportedAdvanced) ExportLexicon(context.Context, string) (string, error) {
	return "", u.err("export_lexicon", "lexicons")
}

func (u UnsupportedAdvanced) SynthesizeLongForm(context.Context, string, string, string, []uint32) (LongFormJob, error) {
	return LongFormJob{}, u.err("synthesize_long_form", "long-form synthesis")
}

func (u UnsupportedAdvanced) GetLongFormStatus(context.Context, string) (LongFormResult, error) {
	return LongFormResult{}, u.err("get_long_form_status", "long-form synthesis")
}

func (u UnsupportedAdvanced) CancelLongForm(context.Context, string) error {
	return u.err("cancel_long_form", "long-form synthesis")
}

// UnsupportedTimingMarks is for providers whose API has no speech-mark
// endpoint.
type UnsupportedTimingMarks struct {
	ProviderName string
}

func (u UnsupportedTimingMarks) GetTimingMarks(context.Context, TextInput, string) ([]TimingInfo, error) {
	return nil, errors.Unsupported("get_timing_marks", u.ProviderName+" does not support timing marks")
}
