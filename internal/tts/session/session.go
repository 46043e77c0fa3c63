// Package session owns streaming session state. The registry is the only
// cross-request shared resource in the gateway; one mutex guards every
// lookup, insert, mutate and remove, and is always released before any
// network call is issued.
package session

import (
	"io"
	"sync"

	"github.com/google/uuid"

	"ttsgateway/internal/platform/errors"
	"ttsgateway/internal/tts/inter"
)

// Data is the mutable state of one streaming session. Access only happens
// inside registry callbacks while the lock is held.
type Data struct {
	ID         string
	Model      string
	Encoding   string
	SampleRate uint32
	State      inter.StreamState
	ErrMsg     string
	Transport  io.Closer

	pending []inter.AudioChunk
	nextSeq uint32
}

// AppendAudio buffers one chunk in FIFO order, assigning the next sequence
// number.
func (d *Data) AppendAudio(audio []byte, final bool) {
	d.pending = append(d.pending, inter.AudioChunk{
		Data:     audio,
		Sequence: d.nextSeq,
		IsFinal:  final,
	})
	d.nextSeq++
}

// PopChunk removes and returns the oldest buffered chunk, or nil when the
// buffer is empty.
func (d *Data) PopChunk() *inter.AudioChunk {
	if len(d.pending) == 0 {
		return nil
	}
	chunk := d.pending[0]
	d.pending = d.pending[1:]
	return &chunk
}

func (d *Data) HasPending() bool {
	return len(d.pending) > 0
}

// NewID returns a fresh opaque session id.
func NewID() string {
	return uuid.NewString()
}

// Registry maps session ids to session state.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Data
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Data)}
}

// Put registers a session under its id.
func (r *Registry) Put(d *Data) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[d.ID] = d
}

// With runs fn on the session's state while holding the lock. fn must not
// perform network I/O; fetch the transport, return, and do the I/O outside.
func (r *Registry) With(op, sessionID string, fn func(*Data) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.sessions[sessionID]
	if !ok {
		return errors.SessionNotFound(op, sessionID)
	}
	return fn(d)
}

// Transport returns the session's network handle so callers can use it
// after releasing the lock.
func (r *Registry) Transport(op, sessionID string) (io.Closer, error) {
	var t io.Closer
	err := r.With(op, sessionID, func(d *Data) error {
		t = d.Transport
		return nil
	})
	return t, err
}

// Status reports the session's current state.
func (r *Registry) Status(sessionID string) (inter.StreamStatus, error) {
	var status inter.StreamStatus
	err := r.With("stream_get_status", sessionID, func(d *Data) error {
		status = inter.StreamStatus{
			Status:           d.State,
			IsActive:         d.State == inter.StateActive,
			HasPendingChunks: d.HasPending(),
			Error:            d.ErrMsg,
		}
		return nil
	})
	return status, err
}

// HasPending reports whether the session has buffered chunks. An unknown
// session simply has none.
func (r *Registry) HasPending(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.sessions[sessionID]
	return ok && d.HasPending()
}

// Remove deletes the session and returns its transport so the caller can
// close it outside the lock. Removing an unknown session is a no-op.
func (r *Registry) Remove(sessionID string) io.Closer {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.sessions[sessionID]
	if !ok {
		return nil
	}
	delete(r.sessions, sessionID)
	return d.Transport
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
