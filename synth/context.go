package synth

import (
	"errors"
	"sync"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
)

// ErrClosed is returned when scheduling on a closed context.
var ErrClosed = errors.New("audio context closed")

// DefaultSampleRate is used when a context is created with a non-positive rate.
const DefaultSampleRate = 48000

// Context is the shared audio graph all sound events render into. Its clock
// advances only as frames are processed, so CurrentTime follows the render
// timeline rather than wall time.
type Context struct {
	mu         sync.Mutex
	sampleRate int
	frame      int64
	events     []*SoundEvent
	outputGain float64
	closed     bool
}

// NewContext creates an open context rendering stereo at sampleRate.
func NewContext(sampleRate int) *Context {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Context{
		sampleRate: sampleRate,
		events:     make([]*SoundEvent, 0, 16),
		outputGain: 1.0,
	}
}

// SampleRate returns the render rate in Hz.
func (c *Context) SampleRate() int {
	return c.sampleRate
}

// CurrentTime returns seconds of audio rendered since creation.
func (c *Context) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float64(c.frame) / float64(c.sampleRate)
}

// IsOpen reports whether events can be scheduled. A nil context is closed.
func (c *Context) IsOpen() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// SetOutputGain sets the master gain applied after mixing.
func (c *Context) SetOutputGain(g float64) {
	if !isFinite(g) || g < 0 {
		return
	}
	c.mu.Lock()
	c.outputGain = g
	c.mu.Unlock()
}

// Schedule hands an event to the render timeline. The context owns it until its oscillator stops.
func (c *Context) Schedule(ev *SoundEvent) error {
	if ev == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.events = append(c.events, ev)
	return nil
}

// Active returns the number of events still owned by the context.
func (c *Context) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// Process renders a block of audio samples (stereo interleaved) and advances the clock.
// A closed context renders silence and its clock stands still.
func (c *Context) Process(numFrames int) []float32 {
	if numFrames <= 0 {
		return nil
	}
	out := make([]float32, numFrames*2)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return out
	}

	sr := float64(c.sampleRate)
	for i := 0; i < numFrames; i++ {
		t := float64(c.frame+int64(i)) / sr
		var sum float64
		for _, ev := range c.events {
			sum += ev.render(t, sr)
		}
		s := float32(dspcore.FlushDenormals(sum * c.outputGain))
		out[i*2] = s
		out[i*2+1] = s
	}
	c.frame += int64(numFrames)

	end := float64(c.frame) / sr
	live := c.events[:0]
	for _, ev := range c.events {
		if !ev.finished(end) {
			live = append(live, ev)
		}
	}
	for i := len(live); i < len(c.events); i++ {
		c.events[i] = nil
	}
	c.events = live

	return out
}

// Close stops and releases every in-flight event. Further Schedule calls fail with ErrClosed.
func (c *Context) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.events = nil
	return nil
}
