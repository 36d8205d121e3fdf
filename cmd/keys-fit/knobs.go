package main

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-keys/synth"
)

type knobDef struct {
	Name string
	Min  float64
	Max  float64
}

type candidate struct {
	Vals []float64
}

// envelopeKnobs are the synth parameters the fitter searches over.
var envelopeKnobs = []knobDef{
	{Name: "attack_s", Min: 0.001, Max: 0.2},
	{Name: "peak", Min: 0.05, Max: 1.0},
	{Name: "decay_s", Min: 0.1, Max: 4.0},
	{Name: "floor", Min: 0.0005, Max: 0.05},
}

func initCandidate(base *synth.Params, defs []knobDef) candidate {
	vals := make([]float64, len(defs))
	for i, def := range defs {
		var v float64
		switch def.Name {
		case "attack_s":
			v = base.Attack
		case "peak":
			v = base.Peak
		case "decay_s":
			v = base.Decay
		case "floor":
			v = base.Floor
		}
		vals[i] = clamp(v, def.Min, def.Max)
	}
	return candidate{Vals: vals}
}

// applyCandidate returns a copy of base with the candidate's knob values,
// repaired so that the result always validates.
func applyCandidate(base *synth.Params, defs []knobDef, c candidate) *synth.Params {
	p := *base
	for i, def := range defs {
		v := c.Vals[i]
		switch def.Name {
		case "attack_s":
			p.Attack = v
		case "peak":
			p.Peak = v
		case "decay_s":
			p.Decay = v
		case "floor":
			p.Floor = v
		}
	}
	if p.Decay <= p.Attack {
		p.Decay = p.Attack * 1.5
	}
	if p.Floor >= p.Peak {
		p.Floor = p.Peak * 0.5
	}
	return &p
}

func fromNormalized(pos []float64, defs []knobDef) candidate {
	vals := make([]float64, len(defs))
	for i, def := range defs {
		x := 0.0
		if i < len(pos) {
			x = clamp(pos[i], 0, 1)
		}
		vals[i] = def.Min + x*(def.Max-def.Min)
	}
	return candidate{Vals: vals}
}

func knobMap(defs []knobDef, c candidate) map[string]float64 {
	out := make(map[string]float64, len(defs))
	for i, def := range defs {
		out[def.Name] = c.Vals[i]
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func (c candidate) String() string {
	return fmt.Sprintf("%.4g", c.Vals)
}
