package durability

import (
	"bytes"
	"context"
	"sync"

	"github.com/bytedance/sonic"

	"ttsgateway/internal/platform/errors"
	"ttsgateway/internal/platform/logging"
	"ttsgateway/internal/tts/inter"
)

type Mode string

const (
	ModeLive   Mode = "live"
	ModeReplay Mode = "replay"
)

// Wrapper decorates a provider with record/replay durability. Only the
// remote-write operations (Synthesize, SynthesizeBatch) are journaled;
// everything else passes through to the wrapped provider, since those
// operations are either pure or serve registry state rebuilt by the
// replayed writes.
type Wrapper struct {
	inter.Provider

	journal Journal
	mode    Mode
	log     *logging.Logger

	// mu guards mode, the sequence counter and journal access. It is never
	// held across the live network call, so journaled operations run
	// concurrently; sequence positions follow completion order, which is
	// the order a replay run observes.
	mu  sync.Mutex
	seq uint64
}

func NewWrapper(p inter.Provider, journal Journal, mode Mode, log *logging.Logger) *Wrapper {
	if log == nil {
		log = logging.Default()
	}
	return &Wrapper{
		Provider: p,
		journal:  journal,
		mode:     mode,
		log:      log,
	}
}

// Mode reports the wrapper's current mode. Replay switches to live once the
// journal is exhausted.
func (w *Wrapper) Mode() Mode {
	return w.mode
}

// Unwrap exposes the wrapped provider so callers can reach provider-specific
// surfaces beyond the uniform interface.
func (w *Wrapper) Unwrap() inter.Provider {
	return w.Provider
}

type synthesizeInput struct {
	Input   inter.TextInput        `json:"input"`
	Options inter.SynthesisOptions `json:"options"`
}

type synthesizeBatchInput struct {
	Inputs  []inter.TextInput      `json:"inputs"`
	Options inter.SynthesisOptions `json:"options"`
}

func (w *Wrapper) Synthesize(ctx context.Context, input inter.TextInput, options inter.SynthesisOptions) (inter.SynthesisResult, error) {
	var result inter.SynthesisResult
	err := w.durable(ctx, "synthesize", synthesizeInput{Input: input, Options: options}, &result,
		func() (any, error) {
			return w.Provider.Synthesize(ctx, input, options)
		})
	return result, err
}

func (w *Wrapper) SynthesizeBatch(ctx context.Context, inputs []inter.TextInput, options inter.SynthesisOptions) ([]inter.SynthesisResult, error) {
	var results []inter.SynthesisResult
	err := w.durable(ctx, "synthesize_batch", synthesizeBatchInput{Inputs: inputs, Options: options}, &results,
		func() (any, error) {
			return w.Provider.SynthesizeBatch(ctx, inputs, options)
		})
	return results, err
}

// durable runs one journaled operation. In replay mode the recorded outcome
// at the next sequence position is decoded into out; once the journal runs
// out, the wrapper flips to live and executes for real. Live execution
// happens outside the lock and is journaled at the position it completes.
func (w *Wrapper) durable(ctx context.Context, op string, input any, out any, run func() (any, error)) error {
	inputJSON, err := sonic.Marshal(input)
	if err != nil {
		return errors.Wrap(errors.CodeInternalError, op, "encode journal input", err)
	}

	if served, err := w.serveRecorded(op, inputJSON, out); served {
		return err
	}

	result, runErr := run()

	rec := Record{Operation: op, Input: inputJSON}
	if runErr != nil {
		rec.ErrCode = string(errors.CodeOf(runErr))
		rec.ErrMessage = runErr.Error()
	} else {
		output, err := sonic.Marshal(result)
		if err != nil {
			return errors.Wrap(errors.CodeInternalError, op, "encode journal output", err)
		}
		rec.Output = output
	}

	if err := w.append(&rec); err != nil {
		return errors.Wrap(errors.CodeInternalError, op, "append journal", err)
	}

	if runErr != nil {
		return runErr
	}
	return decodeInto(op, rec.Output, out)
}

// serveRecorded serves the journaled outcome at the next sequence position
// while in replay mode. served reports whether the call was handled; false
// means the caller must execute live.
func (w *Wrapper) serveRecorded(op string, inputJSON []byte, out any) (served bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.mode != ModeReplay {
		return false, nil
	}

	rec, err := w.journal.Read(w.seq)
	if err != nil {
		return true, errors.Wrap(errors.CodeInternalError, op, "read journal", err)
	}
	if rec == nil {
		w.log.Info("journal exhausted, switching to live execution", "seq", w.seq)
		w.mode = ModeLive
		return false, nil
	}

	seq := w.seq
	w.seq++
	return true, w.replay(op, seq, rec, inputJSON, out)
}

// append assigns the record's sequence position and persists it.
func (w *Wrapper) append(rec *Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	rec.Seq = w.seq
	w.seq++
	return w.journal.Append(*rec)
}

// replay serves a recorded outcome, verifying that the execution is still
// following the journaled prefix. A diverging operation or input is fatal:
// the journal no longer describes this execution.
func (w *Wrapper) replay(op string, seq uint64, rec *Record, inputJSON []byte, out any) error {
	if rec.Operation != op {
		return errors.Internal(op, "journal diverged: recorded operation "+rec.Operation)
	}
	if !bytes.Equal(rec.Input, inputJSON) {
		return errors.Internal(op, "journal diverged: recorded input does not match")
	}

	w.log.Debug("serving journaled outcome", "op", op, "seq", seq)

	if rec.ErrCode != "" {
		return errors.New(errors.Code(rec.ErrCode), op, rec.ErrMessage)
	}
	return decodeInto(op, rec.Output, out)
}

func decodeInto(op string, data []byte, out any) error {
	if err := sonic.Unmarshal(data, out); err != nil {
		return errors.Wrap(errors.CodeInternalError, op, "decode journal output", err)
	}
	return nil
}
