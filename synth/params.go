package synth

import (
	"fmt"
	"math"
)

// Params holds the envelope and oscillator settings applied to every triggered note.
type Params struct {
	Waveform Waveform

	Attack float64 // seconds from trigger to Peak (linear ramp)
	Peak   float64 // amplitude reached at the end of the attack
	Decay  float64 // seconds from trigger to Floor (exponential ramp); the oscillator stops here
	Floor  float64 // exponential ramps cannot reach zero, so the decay ends here

	Transpose  float64 // semitones added to every note, within two octaves
	OutputGain float64
}

const maxTranspose = 24

// NewDefaultParams creates the reference envelope: 10ms attack to 0.3, one
// second exponential decay to 0.01.
func NewDefaultParams() *Params {
	return &Params{
		Waveform:   Sine,
		Attack:     0.01,
		Peak:       0.3,
		Decay:      1.0,
		Floor:      0.01,
		OutputGain: 1.0,
	}
}

// Validate checks that the envelope can be scheduled.
func (p *Params) Validate() error {
	if p == nil {
		return fmt.Errorf("nil params")
	}
	if _, err := ParseWaveform(p.Waveform.String()); err != nil {
		return err
	}
	if !isFinite(p.Attack) || p.Attack <= 0 {
		return fmt.Errorf("attack must be > 0")
	}
	if !isFinite(p.Decay) || p.Decay <= p.Attack {
		return fmt.Errorf("decay must be > attack (%g)", p.Attack)
	}
	if !isFinite(p.Peak) || p.Peak <= 0 || p.Peak > 1 {
		return fmt.Errorf("peak must be in (0,1]")
	}
	if !isFinite(p.Floor) || p.Floor <= 0 || p.Floor >= p.Peak {
		return fmt.Errorf("floor must be in (0,peak)")
	}
	if !isFinite(p.Transpose) || math.Abs(p.Transpose) > maxTranspose {
		return fmt.Errorf("transpose must be within +/-%d semitones", maxTranspose)
	}
	if !isFinite(p.OutputGain) || p.OutputGain <= 0 {
		return fmt.Errorf("output gain must be > 0")
	}
	return nil
}
