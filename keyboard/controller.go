// Package keyboard turns key presses into notes and drives the pressed-key
// highlight shown by the view.
package keyboard

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/cwbudde/algo-keys/engine"
	"github.com/cwbudde/algo-keys/notes"
	"github.com/cwbudde/algo-keys/synth"
)

// DefaultResetAfter is how long a key stays highlighted after a press.
const DefaultResetAfter = 200 * time.Millisecond

var (
	// ErrMounted is returned by Mount on a controller that is already mounted.
	ErrMounted = errors.New("keyboard already mounted")
	// ErrNoOutput marks a controller created without an audio opener.
	ErrNoOutput = errors.New("no audio output configured")
)

// ResetPolicy decides which highlight timers may clear the active key.
type ResetPolicy int

const (
	// ResetUnconditional lets every press's timer clear the highlight, even
	// when a newer press set it. A quick second press can therefore lose its
	// highlight early.
	ResetUnconditional ResetPolicy = iota
	// ResetLatest only lets the most recent press's timer clear the highlight.
	ResetLatest
)

func (p ResetPolicy) String() string {
	switch p {
	case ResetUnconditional:
		return "unconditional"
	case ResetLatest:
		return "latest"
	default:
		return fmt.Sprintf("ResetPolicy(%d)", int(p))
	}
}

// ParseResetPolicy maps a policy name to its value.
func ParseResetPolicy(name string) (ResetPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unconditional":
		return ResetUnconditional, nil
	case "latest":
		return ResetLatest, nil
	default:
		return ResetUnconditional, fmt.Errorf("unknown reset policy %q", name)
	}
}

// Opener allocates the audio pipeline on mount.
type Opener func() (*engine.Handle, error)

// State is what the view renders.
type State struct {
	ActiveID string // "" when no key is highlighted
	Degraded bool   // audio could not be opened; presses are silent
}

// Idle reports whether no key is highlighted.
func (s State) Idle() bool {
	return s.ActiveID == ""
}

// Options configures a Controller. Zero values select the defaults.
type Options struct {
	Open       Opener
	Synth      *synth.Synth
	ResetAfter time.Duration
	Policy     ResetPolicy
	Clock      Clock
	Logger     *log.Logger
	OnChange   func(State)
}

// Controller is the interaction state machine for one keyboard view.
type Controller struct {
	open       Opener
	synth      *synth.Synth
	resetAfter time.Duration
	policy     ResetPolicy
	clock      Clock
	logger     *log.Logger
	onChange   func(State)

	mu         sync.Mutex
	handle     *engine.Handle
	mounted    bool
	degraded   bool
	audioErr   error
	active     string
	generation uint64
	nextTimer  uint64
	timers     map[uint64]Timer
}

// NewController creates an unmounted controller.
func NewController(opts Options) *Controller {
	c := &Controller{
		open:       opts.Open,
		synth:      opts.Synth,
		resetAfter: opts.ResetAfter,
		policy:     opts.Policy,
		clock:      opts.Clock,
		logger:     opts.Logger,
		onChange:   opts.OnChange,
		timers:     make(map[uint64]Timer),
	}
	if c.synth == nil {
		c.synth = synth.New(nil)
	}
	if c.resetAfter <= 0 {
		c.resetAfter = DefaultResetAfter
	}
	if c.clock == nil {
		c.clock = SystemClock()
	}
	return c
}

// Mount opens the audio pipeline. When the platform refuses audio the
// controller stays usable without sound; Degraded and AudioErr report why.
func (c *Controller) Mount() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mounted {
		return ErrMounted
	}
	c.mounted = true
	c.degraded = false
	c.audioErr = nil

	if c.open == nil {
		c.degrade(ErrNoOutput)
		return nil
	}
	h, err := c.open()
	if err != nil {
		c.degrade(err)
		return nil
	}
	c.handle = h
	return nil
}

func (c *Controller) degrade(err error) {
	c.degraded = true
	c.audioErr = err
	c.logf("keyboard: audio unavailable, continuing silently: %v", err)
}

// Unmount cancels pending highlight timers, clears the highlight and closes
// the audio pipeline. It is safe to call more than once.
func (c *Controller) Unmount() error {
	c.mu.Lock()
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	h := c.handle
	c.handle = nil
	c.mounted = false
	c.active = ""
	c.mu.Unlock()

	return h.Close()
}

// Trigger plays noteID and highlights it for the reset window. An id outside
// the keyboard is a programming error and is returned, never ignored.
// Presses on an unmounted controller only validate the id.
func (c *Controller) Trigger(noteID string) error {
	note, err := notes.Lookup(noteID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return nil
	}
	h := c.handle
	c.mu.Unlock()

	c.synth.Trigger(h, note.Frequency)

	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return nil
	}
	c.generation++
	gen := c.generation
	c.nextTimer++
	id := c.nextTimer
	c.active = note.ID
	c.timers[id] = c.clock.AfterFunc(c.resetAfter, func() { c.expire(id, gen) })
	st := c.stateLocked()
	c.mu.Unlock()

	c.notify(st)
	return nil
}

func (c *Controller) expire(id uint64, gen uint64) {
	c.mu.Lock()
	if _, ok := c.timers[id]; !ok {
		c.mu.Unlock()
		return
	}
	delete(c.timers, id)
	if c.policy == ResetLatest && gen != c.generation {
		c.mu.Unlock()
		return
	}
	changed := c.active != ""
	c.active = ""
	st := c.stateLocked()
	c.mu.Unlock()

	if changed {
		c.notify(st)
	}
}

// Active returns the highlighted note, if any.
func (c *Controller) Active() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active, c.active != ""
}

// State returns a snapshot for rendering.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Degraded reports whether the last mount failed to open audio.
func (c *Controller) Degraded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.degraded
}

// AudioErr returns why audio is unavailable, or nil.
func (c *Controller) AudioErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.audioErr
}

// Handle returns the open audio pipeline, or nil when unmounted or silent.
func (c *Controller) Handle() *engine.Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle
}

// Pending returns the number of highlight timers not yet fired.
func (c *Controller) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *Controller) stateLocked() State {
	return State{ActiveID: c.active, Degraded: c.degraded}
}

func (c *Controller) notify(st State) {
	if c.onChange != nil {
		c.onChange(st)
	}
}

func (c *Controller) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
