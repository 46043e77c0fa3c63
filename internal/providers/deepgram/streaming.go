package deepgram

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"ttsgateway/internal/platform/errors"
	"ttsgateway/internal/platform/logging"
	"ttsgateway/internal/tts/inter"
	"ttsgateway/internal/tts/session"
)

// Conn is the subset of *websocket.Conn the stream manager needs.
type Conn interface {
	WriteJSON(v any) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer opens a websocket connection to the speak endpoint.
type Dialer interface {
	Dial(ctx context.Context, rawURL string, header http.Header) (Conn, error)
}

type gorillaDialer struct{}

func (gorillaDialer) Dial(ctx context.Context, rawURL string, header http.Header) (Conn, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, rawURL, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return conn, err
}

type controlMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// StreamManager drives Aura's websocket sessions. Session state lives in
// the shared registry; the connection is only ever used outside its lock.
type StreamManager struct {
	apiKey   string
	wsBase   string
	dialer   Dialer
	sessions *session.Registry
	log      *logging.Logger
}

func NewStreamManager(apiKey, wsBase string, log *logging.Logger) *StreamManager {
	return &StreamManager{
		apiKey:   apiKey,
		wsBase:   wsBase,
		dialer:   gorillaDialer{},
		sessions: session.NewRegistry(),
		log:      log,
	}
}

// WithDialer swaps the websocket dialer. Used by tests.
func (m *StreamManager) WithDialer(d Dialer) *StreamManager {
	m.dialer = d
	return m
}

func (m *StreamManager) streamURL(model, encoding string, sampleRate uint32) string {
	query := url.Values{}
	query.Set("model", model)
	query.Set("encoding", encoding)
	query.Set("sample_rate", strconv.FormatUint(uint64(sampleRate), 10))
	return m.wsBase + "/v1/speak?" + query.Encode()
}

// CreateStream dials the websocket and registers a new session.
func (m *StreamManager) CreateStream(ctx context.Context, options inter.SynthesisOptions) (inter.StreamSession, error) {
	const op = "create_stream"

	model := options.VoiceID
	if model == "" {
		model = "aura-asteria-en"
	}
	encoding := "linear16"
	sampleRate := uint32(24000)
	if options.AudioConfig != nil && options.AudioConfig.SampleRate != 0 {
		sampleRate = options.AudioConfig.SampleRate
	}

	header := http.Header{}
	header.Set("Authorization", "Token "+m.apiKey)

	conn, err := m.dialer.Dial(ctx, m.streamURL(model, encoding, sampleRate), header)
	if err != nil {
		return inter.StreamSession{}, errors.Wrap(errors.CodeNetworkError, op, "dial stream", err)
	}

	data := &session.Data{
		ID:         session.NewID(),
		Model:      model,
		Encoding:   encoding,
		SampleRate: sampleRate,
		State:      inter.StateActive,
		Transport:  conn,
	}
	m.sessions.Put(data)
	m.log.Info("stream created", "session", data.ID, "model", model)

	return inter.StreamSession{
		SessionID:  data.ID,
		Model:      model,
		Encoding:   encoding,
		SampleRate: sampleRate,
	}, nil
}

// SendText pushes one text fragment into the stream.
func (m *StreamManager) SendText(ctx context.Context, sessionID string, input inter.TextInput) error {
	const op = "stream_send_text"

	conn, err := m.conn(op, sessionID)
	if err != nil {
		return err
	}
	if err := conn.WriteJSON(controlMessage{Type: "Speak", Text: input.Content}); err != nil {
		m.fail(sessionID, err.Error())
		return errors.Wrap(errors.CodeNetworkError, op, "send text", err)
	}
	return nil
}

// Finish flushes the stream and drains the produced audio into the session
// buffer. Finishing an already finished session is a no-op.
func (m *StreamManager) Finish(ctx context.Context, sessionID string) error {
	const op = "stream_finish"

	var done bool
	err := m.sessions.With(op, sessionID, func(d *session.Data) error {
		done = d.State == inter.StateFinished
		return nil
	})
	if err != nil || done {
		return err
	}

	conn, err := m.conn(op, sessionID)
	if err != nil {
		return err
	}
	if err := conn.WriteJSON(controlMessage{Type: "Flush"}); err != nil {
		m.fail(sessionID, err.Error())
		return errors.Wrap(errors.CodeNetworkError, op, "flush stream", err)
	}

	// Binary frames are audio; text frames are control messages, of which
	// Flushed marks the end of the drain.
	var chunks [][]byte
	for {
		kind, payload, err := conn.ReadMessage()
		if err != nil {
			m.fail(sessionID, err.Error())
			return errors.Wrap(errors.CodeNetworkError, op, "read stream", err)
		}
		if kind == websocket.BinaryMessage {
			chunks = append(chunks, payload)
			continue
		}

		var msg controlMessage
		if err := sonic.Unmarshal(payload, &msg); err != nil {
			continue
		}
		if msg.Type == "Flushed" {
			break
		}
	}

	return m.sessions.With(op, sessionID, func(d *session.Data) error {
		for i, audio := range chunks {
			d.AppendAudio(audio, i == len(chunks)-1)
		}
		d.State = inter.StateFinished
		return nil
	})
}

// ReceiveChunk pops the oldest buffered chunk; nil means nothing is left.
func (m *StreamManager) ReceiveChunk(ctx context.Context, sessionID string) (*inter.AudioChunk, error) {
	var chunk *inter.AudioChunk
	err := m.sessions.With("stream_receive_chunk", sessionID, func(d *session.Data) error {
		chunk = d.PopChunk()
		return nil
	})
	return chunk, err
}

func (m *StreamManager) HasPending(sessionID string) (bool, error) {
	return m.sessions.HasPending(sessionID), nil
}

func (m *StreamManager) Status(sessionID string) (inter.StreamStatus, error) {
	return m.sessions.Status(sessionID)
}

// Close tears the session down. The connection gets a best-effort Close
// control message before the socket is shut.
func (m *StreamManager) Close(sessionID string) error {
	transport := m.sessions.Remove(sessionID)
	if transport == nil {
		return nil
	}
	if conn, ok := transport.(Conn); ok {
		_ = conn.WriteJSON(controlMessage{Type: "Close"})
	}
	if err := transport.Close(); err != nil && err != io.EOF {
		m.log.Warn("closing stream transport", "session", sessionID, "error", err)
	}
	return nil
}

func (m *StreamManager) conn(op, sessionID string) (Conn, error) {
	transport, err := m.sessions.Transport(op, sessionID)
	if err != nil {
		return nil, err
	}
	conn, ok := transport.(Conn)
	if !ok {
		return nil, errors.Internal(op, "session has no websocket transport")
	}
	return conn, nil
}

func (m *StreamManager) fail(sessionID, message string) {
	_ = m.sessions.With("stream_fail", sessionID, func(d *session.Data) error {
		d.State = inter.StateError
		d.ErrMsg = message
		return nil
	})
}
