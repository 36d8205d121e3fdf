package synth

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidSchedule is returned for start/stop calls out of order.
var ErrInvalidSchedule = errors.New("invalid oscillator schedule")

// Waveform defines the oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Sawtooth
	Triangle
)

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Sawtooth:
		return "sawtooth"
	case Triangle:
		return "triangle"
	default:
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
}

// ParseWaveform maps a waveform name to its value.
func ParseWaveform(name string) (Waveform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sine":
		return Sine, nil
	case "square":
		return Square, nil
	case "sawtooth", "saw":
		return Sawtooth, nil
	case "triangle":
		return Triangle, nil
	default:
		return Sine, fmt.Errorf("unknown waveform %q", name)
	}
}

// Oscillator is a periodic signal generator with a scheduled start and stop.
type Oscillator struct {
	waveform  Waveform
	frequency float64
	phase     float64
	startAt   float64
	stopAt    float64
	started   bool
	stopped   bool
}

// NewOscillator creates an oscillator that stays silent until Start.
func NewOscillator(waveform Waveform, frequency float64) *Oscillator {
	return &Oscillator{
		waveform:  waveform,
		frequency: frequency,
	}
}

// Frequency returns the oscillator frequency in Hz.
func (o *Oscillator) Frequency() float64 {
	return o.frequency
}

// Start schedules the oscillator to begin at t. It may be started once.
func (o *Oscillator) Start(t float64) error {
	if err := checkTime(t); err != nil {
		return err
	}
	if o.started {
		return fmt.Errorf("%w: already started", ErrInvalidSchedule)
	}
	o.started = true
	o.startAt = t
	return nil
}

// Stop schedules the oscillator to end at t, which must not precede the start.
func (o *Oscillator) Stop(t float64) error {
	if err := checkTime(t); err != nil {
		return err
	}
	if !o.started {
		return fmt.Errorf("%w: stop before start", ErrInvalidSchedule)
	}
	if t < o.startAt {
		return fmt.Errorf("%w: stop %g before start %g", ErrInvalidSchedule, t, o.startAt)
	}
	o.stopped = true
	o.stopAt = t
	return nil
}

func (o *Oscillator) playing(t float64) bool {
	return o.started && t >= o.startAt && !o.done(t)
}

func (o *Oscillator) done(t float64) bool {
	return o.stopped && t >= o.stopAt
}

// next returns the current sample and advances the phase by one sample.
func (o *Oscillator) next(sampleRate float64) float64 {
	s := waveSample(o.waveform, o.phase)
	o.phase += 2 * math.Pi * o.frequency / sampleRate
	if o.phase >= 2*math.Pi {
		o.phase -= 2 * math.Pi
	}
	return s
}

// waveSample evaluates a waveform at phase in [0, 2pi).
func waveSample(w Waveform, phase float64) float64 {
	switch w {
	case Square:
		if phase < math.Pi {
			return 1
		}
		return -1
	case Sawtooth:
		return phase/math.Pi - 1
	case Triangle:
		return (2 / math.Pi) * math.Asin(math.Sin(phase))
	default:
		return math.Sin(phase)
	}
}
