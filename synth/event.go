package synth

// Gain scales its input by an automated amplitude.
type Gain struct {
	Gain *Param
}

// NewGain creates a unity gain node.
func NewGain() *Gain {
	return &Gain{Gain: NewParam(1.0)}
}

// SoundEvent is one triggered note: oscillator -> envelope gain -> context output.
// Each event owns its nodes, so overlapping events never share envelope state.
type SoundEvent struct {
	Osc *Oscillator
	Env *Gain
}

// NewSoundEvent wires a fresh oscillator into a fresh envelope.
func NewSoundEvent(waveform Waveform, frequency float64) *SoundEvent {
	return &SoundEvent{
		Osc: NewOscillator(waveform, frequency),
		Env: NewGain(),
	}
}

// render returns the output for the sample at time t.
func (e *SoundEvent) render(t float64, sampleRate float64) float64 {
	if !e.Osc.playing(t) {
		return 0
	}
	return e.Osc.next(sampleRate) * e.Env.Gain.ValueAt(t)
}

func (e *SoundEvent) finished(t float64) bool {
	return e.Osc.done(t)
}
