package synth

import (
	"math"

	"github.com/cwbudde/algo-approx"
)

func expApprox(x float64) float64 {
	return float64(approx.FastExp(float32(x)))
}

// semitoneRatio returns the frequency ratio for a pitch offset in semitones.
func semitoneRatio(semitones float64) float64 {
	const ln2 = 0.69314718055994530942
	return expApprox(semitones / 12.0 * ln2)
}

// Transpose shifts a frequency by a number of semitones.
func Transpose(frequency float64, semitones float64) float64 {
	return frequency * semitoneRatio(semitones)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
