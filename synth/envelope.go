package synth

// Target is the audio pipeline a note is scheduled against. Both *Context and
// engine handles satisfy it.
type Target interface {
	IsOpen() bool
	CurrentTime() float64
	Schedule(ev *SoundEvent) error
}

// Synth builds envelope-shaped sound events from a fixed set of params.
type Synth struct {
	params Params
}

// New creates a synthesizer. Nil or invalid params fall back to the defaults.
func New(params *Params) *Synth {
	if params == nil || params.Validate() != nil {
		params = NewDefaultParams()
	}
	return &Synth{params: *params}
}

// Params returns a copy of the synthesizer settings.
func (s *Synth) Params() Params {
	return s.params
}

// NewEvent builds a sound event anchored at t0:
//
//	t0:        amplitude 0
//	t0+Attack: linear ramp to Peak
//	t0+Decay:  exponential ramp to Floor, oscillator stops
//
// The oscillator runs at frequency shifted by Params.Transpose.
func (s *Synth) NewEvent(t0, frequency float64) (*SoundEvent, error) {
	p := s.params
	if p.Transpose != 0 {
		frequency = Transpose(frequency, p.Transpose)
	}
	ev := NewSoundEvent(p.Waveform, frequency)
	g := ev.Env.Gain
	if err := g.SetValueAtTime(0, t0); err != nil {
		return nil, err
	}
	if err := g.LinearRampToValueAtTime(p.Peak, t0+p.Attack); err != nil {
		return nil, err
	}
	if err := g.ExponentialRampToValueAtTime(p.Floor, t0+p.Decay); err != nil {
		return nil, err
	}
	if err := ev.Osc.Start(t0); err != nil {
		return nil, err
	}
	if err := ev.Osc.Stop(t0 + p.Decay); err != nil {
		return nil, err
	}
	return ev, nil
}

// Trigger schedules one self-terminating note at frequency Hz. It never fails
// loudly: a nil or closed target, or a frequency that is not a positive finite
// number, makes it a no-op. A target closed between the liveness check and
// scheduling is treated the same way.
func (s *Synth) Trigger(target Target, frequency float64) {
	if target == nil || !target.IsOpen() {
		return
	}
	if !isFinite(frequency) || frequency <= 0 {
		return
	}
	ev, err := s.NewEvent(target.CurrentTime(), frequency)
	if err != nil {
		return
	}
	_ = target.Schedule(ev)
}

var defaultSynth = New(nil)

// Trigger schedules a note with the default envelope.
func Trigger(target Target, frequency float64) {
	defaultSynth.Trigger(target, frequency)
}
