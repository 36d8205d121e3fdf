package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

// ErrSilent is returned when a signal carries no measurable energy.
var ErrSilent = errors.New("analysis: signal is silent")

const (
	pitchFFTSize    = 16384
	spectrumFFTSize = 4096
	minPitchHz      = 20.0
)

// magnitudeSpectrum returns |X[k]| for k in [0, size/2] of the Hann-windowed
// head of x, zero-padded to size. size must be a power of two.
func magnitudeSpectrum(x []float64, size int) ([]float64, error) {
	plan, err := algofft.NewPlanReal64(size)
	if err != nil {
		return nil, err
	}
	n := len(x)
	if n > size {
		n = size
	}
	buf := make([]float64, size)
	for i := 0; i < n; i++ {
		buf[i] = x[i] * hann(i, n)
	}
	spec := make([]complex128, size/2+1)
	plan.Forward(spec, buf)

	mag := make([]float64, len(spec))
	for k, c := range spec {
		mag[k] = cmplx.Abs(c)
	}
	return mag, nil
}

func hann(i, n int) float64 {
	if n < 2 {
		return 1
	}
	return 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
}

// FundamentalHz estimates the dominant frequency of x from the strongest
// spectral peak above 20 Hz, refined by parabolic interpolation of the
// log magnitudes around it.
func FundamentalHz(x []float64, sampleRate int) (float64, error) {
	if sampleRate <= 0 || len(x) == 0 {
		return 0, ErrSilent
	}
	mag, err := magnitudeSpectrum(x, pitchFFTSize)
	if err != nil {
		return 0, err
	}
	binHz := float64(sampleRate) / pitchFFTSize
	lo := int(minPitchHz / binHz)
	if lo < 1 {
		lo = 1
	}
	best := -1
	for k := lo; k < len(mag)-1; k++ {
		if best < 0 || mag[k] > mag[best] {
			best = k
		}
	}
	if best < 0 || mag[best] <= 1e-9 {
		return 0, ErrSilent
	}

	a := math.Log(math.Max(mag[best-1], 1e-300))
	b := math.Log(mag[best])
	c := math.Log(math.Max(mag[best+1], 1e-300))
	offset := 0.0
	if den := a - 2*b + c; den < 0 {
		offset = 0.5 * (a - c) / den
	}
	return (float64(best) + offset) * binHz, nil
}

// CentsBetween returns the interval from a to b in cents.
func CentsBetween(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return math.NaN()
	}
	return 1200 * math.Log2(b/a)
}

// spectralRMSEDB compares the log magnitude spectra of the heads of a and b.
func spectralRMSEDB(a []float64, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n < 512 {
		return 0
	}
	ma, err := magnitudeSpectrum(a[:n], spectrumFFTSize)
	if err != nil {
		return 0
	}
	mb, err := magnitudeSpectrum(b[:n], spectrumFFTSize)
	if err != nil {
		return 0
	}
	bins := spectrumFFTSize / 2
	var sum float64
	for k := 1; k < bins; k++ {
		d := linToDB(ma[k]) - linToDB(mb[k])
		sum += d * d
	}
	return math.Sqrt(sum / float64(bins-1))
}
