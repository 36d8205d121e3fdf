package synth

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrInvalidTime is returned for negative or non-finite automation times.
	ErrInvalidTime = errors.New("invalid automation time")
	// ErrInvalidRamp is returned for exponential ramps that cannot reach their target.
	ErrInvalidRamp = errors.New("invalid exponential ramp target")
)

type automationKind int

const (
	setValue automationKind = iota
	linearRamp
	exponentialRamp
)

type automationEvent struct {
	kind  automationKind
	time  float64
	value float64
}

// Param is a time-automated value. Ramps start at the value and time of the
// preceding event, so a ramp always interpolates from the previous keyframe.
type Param struct {
	defaultValue float64
	events       []automationEvent
}

// NewParam creates a param that holds defaultValue until the first event.
func NewParam(defaultValue float64) *Param {
	return &Param{defaultValue: defaultValue}
}

// SetValueAtTime jumps to value at time t.
func (p *Param) SetValueAtTime(value, t float64) error {
	if err := checkTime(t); err != nil {
		return err
	}
	p.insert(automationEvent{kind: setValue, time: t, value: value})
	return nil
}

// LinearRampToValueAtTime ramps linearly from the previous keyframe to value, arriving at t.
func (p *Param) LinearRampToValueAtTime(value, t float64) error {
	if err := checkTime(t); err != nil {
		return err
	}
	p.insert(automationEvent{kind: linearRamp, time: t, value: value})
	return nil
}

// ExponentialRampToValueAtTime ramps exponentially from the previous keyframe
// to value, arriving at t. Zero targets are rejected.
func (p *Param) ExponentialRampToValueAtTime(value, t float64) error {
	if err := checkTime(t); err != nil {
		return err
	}
	if value == 0 || !isFinite(value) {
		return fmt.Errorf("%w: %g", ErrInvalidRamp, value)
	}
	p.insert(automationEvent{kind: exponentialRamp, time: t, value: value})
	return nil
}

// ValueAt evaluates the automation curve at time t.
func (p *Param) ValueAt(t float64) float64 {
	n := len(p.events)
	if n == 0 {
		return p.defaultValue
	}
	i := sort.Search(n, func(k int) bool { return p.events[k].time > t })
	if i == n {
		return p.events[n-1].value
	}

	next := p.events[i]
	prevT, prevV := 0.0, p.defaultValue
	if i > 0 {
		prevT = p.events[i-1].time
		prevV = p.events[i-1].value
	}

	switch next.kind {
	case linearRamp:
		dt := next.time - prevT
		if dt <= 0 {
			return next.value
		}
		return prevV + (next.value-prevV)*(t-prevT)/dt
	case exponentialRamp:
		if prevV == 0 || prevV*next.value < 0 {
			return prevV
		}
		dt := next.time - prevT
		if dt <= 0 {
			return next.value
		}
		frac := (t - prevT) / dt
		if frac <= 0 {
			return prevV
		}
		return prevV * expApprox(math.Log(next.value/prevV)*frac)
	default:
		return prevV
	}
}

// Len returns the number of scheduled events.
func (p *Param) Len() int {
	return len(p.events)
}

func (p *Param) insert(ev automationEvent) {
	i := sort.Search(len(p.events), func(k int) bool { return p.events[k].time > ev.time })
	p.events = append(p.events, automationEvent{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = ev
}

func checkTime(t float64) error {
	if !isFinite(t) || t < 0 {
		return fmt.Errorf("%w: %g", ErrInvalidTime, t)
	}
	return nil
}
