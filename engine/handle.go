// Package engine owns the audio pipeline that keyboard notes are scheduled
// against: one synth.Context plus the backend that drains it.
package engine

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/cwbudde/algo-keys/synth"
)

// ErrUnavailable is returned by Open when the platform denies audio output.
var ErrUnavailable = errors.New("audio output unavailable")

// Backend drains rendered PCM from src. Start must not block on playback.
type Backend interface {
	Start(src io.Reader, sampleRate int) error
	Close() error
}

// Options configures Open.
type Options struct {
	SampleRate int
	OutputGain float64
	Backend    Backend // nil renders offline
}

// Handle is an exclusively owned, open audio pipeline. The zero of *Handle
// (nil) behaves as a closed handle.
type Handle struct {
	ctx     *synth.Context
	backend Backend

	closeOnce sync.Once
	closeErr  error
}

// Open allocates a pipeline. If the backend cannot start, everything acquired
// so far is released and the error wraps ErrUnavailable.
func Open(opts Options) (*Handle, error) {
	backend := opts.Backend
	if backend == nil {
		backend = &Offline{}
	}
	ctx := synth.NewContext(opts.SampleRate)
	if opts.OutputGain > 0 {
		ctx.SetOutputGain(opts.OutputGain)
	}
	if err := backend.Start(newPCMReader(ctx), ctx.SampleRate()); err != nil {
		_ = ctx.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &Handle{ctx: ctx, backend: backend}, nil
}

// Close stops every in-flight note and releases the backend. Only the first
// call does work; later calls return the same result.
func (h *Handle) Close() error {
	if h == nil {
		return nil
	}
	h.closeOnce.Do(func() {
		h.closeErr = errors.Join(h.ctx.Close(), h.backend.Close())
	})
	return h.closeErr
}

// IsOpen reports whether notes can still be scheduled.
func (h *Handle) IsOpen() bool {
	return h != nil && h.ctx.IsOpen()
}

// CurrentTime returns seconds of audio rendered since Open.
func (h *Handle) CurrentTime() float64 {
	if h == nil {
		return 0
	}
	return h.ctx.CurrentTime()
}

// Schedule passes ev to the pipeline. It fails with synth.ErrClosed after Close.
func (h *Handle) Schedule(ev *synth.SoundEvent) error {
	if h == nil {
		return synth.ErrClosed
	}
	return h.ctx.Schedule(ev)
}

// SampleRate returns the render rate in Hz.
func (h *Handle) SampleRate() int {
	if h == nil {
		return 0
	}
	return h.ctx.SampleRate()
}

// Active returns the number of notes still sounding or pending.
func (h *Handle) Active() int {
	if h == nil {
		return 0
	}
	return h.ctx.Active()
}

// Render pulls numFrames stereo frames from a pipeline opened with the
// Offline backend. Device backends pull on their own and Render returns nil.
func (h *Handle) Render(numFrames int) []float32 {
	if h == nil {
		return nil
	}
	if _, ok := h.backend.(*Offline); !ok {
		return nil
	}
	return h.ctx.Process(numFrames)
}

// Offline is a backend with no device: the owner pulls audio with Handle.Render.
type Offline struct{}

func (*Offline) Start(io.Reader, int) error { return nil }
func (*Offline) Close() error               { return nil }
