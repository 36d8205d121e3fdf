package analysis

import (
	"math"

	algofft "github.com/cwbudde/algo-fft"
)

// Metrics contains distance and similarity measurements between two audio signals.
type Metrics struct {
	SampleRate int `json:"sample_rate"`

	ReferenceFrames int `json:"reference_frames"`
	CandidateFrames int `json:"candidate_frames"`
	AlignedFrames   int `json:"aligned_frames"`
	LagSamples      int `json:"lag_samples"`

	TimeRMSE        float64 `json:"time_rmse"`
	EnvelopeRMSEDB  float64 `json:"envelope_rmse_db"`
	SpectralRMSEDB  float64 `json:"spectral_rmse_db"`
	RefDecayDBPerS  float64 `json:"ref_decay_db_per_s"`
	CandDecayDBPerS float64 `json:"cand_decay_db_per_s"`
	DecayDiffDBPerS float64 `json:"decay_diff_db_per_s"`
	RefPitchHz      float64 `json:"ref_pitch_hz"`
	CandPitchHz     float64 `json:"cand_pitch_hz"`
	PitchDiffCents  float64 `json:"pitch_diff_cents"`

	Score      float64 `json:"score"`
	Similarity float64 `json:"similarity"`
}

const (
	compareFrame = 256
	compareHop   = 128
)

func worstMetrics(m Metrics) Metrics {
	m.Score = 1.0
	m.Similarity = 0.0
	return m
}

// Compare returns objective distance metrics and a combined score in [0,1],
// where 0 means identical. Both inputs are mono at sampleRate.
func Compare(reference []float64, candidate []float64, sampleRate int) Metrics {
	m := Metrics{
		SampleRate:      sampleRate,
		ReferenceFrames: len(reference),
		CandidateFrames: len(candidate),
	}
	if sampleRate <= 0 {
		return worstMetrics(m)
	}

	ref := trimLeadingSilence(reference, 1e-6)
	cand := trimLeadingSilence(candidate, 1e-6)
	if len(ref) == 0 || len(cand) == 0 {
		return worstMetrics(m)
	}
	ref = normalizeRMS(ref, 0.1)
	cand = normalizeRMS(cand, 0.1)

	maxLag := min(sampleRate/2, len(ref)-1, len(cand)-1)
	m.LagSamples = estimateLag(ref, cand, max(maxLag, 1))

	refA, candA := alignByLag(ref, cand, m.LagSamples)
	n := min(len(refA), len(candA), sampleRate*12)
	if n < 256 {
		return worstMetrics(m)
	}
	refA = refA[:n]
	candA = candA[:n]
	m.AlignedFrames = n

	var sq float64
	for i := range refA {
		d := refA[i] - candA[i]
		sq += d * d
	}
	m.TimeRMSE = math.Sqrt(sq / float64(n))

	refEnv := rmsEnvelope(refA, compareFrame, compareHop)
	candEnv := rmsEnvelope(candA, compareFrame, compareHop)
	if envN := min(len(refEnv), len(candEnv)); envN > 0 {
		diff := make([]float64, envN)
		for i := range diff {
			diff[i] = linToDB(refEnv[i]) - linToDB(candEnv[i])
		}
		m.EnvelopeRMSEDB = rms1(diff)
	}

	m.SpectralRMSEDB = spectralRMSEDB(refA, candA)

	hopSec := float64(compareHop) / float64(sampleRate)
	refDecay := decaySlopeDBPerS(refEnv, hopSec)
	candDecay := decaySlopeDBPerS(candEnv, hopSec)
	if isFinite(refDecay) && isFinite(candDecay) {
		m.DecayDiffDBPerS = math.Abs(refDecay - candDecay)
	}
	m.RefDecayDBPerS = finiteOrZero(refDecay)
	m.CandDecayDBPerS = finiteOrZero(candDecay)

	pitchNorm := 0.0
	rf, errR := FundamentalHz(refA, sampleRate)
	cf, errC := FundamentalHz(candA, sampleRate)
	if errR == nil && errC == nil {
		m.RefPitchHz = rf
		m.CandPitchHz = cf
		m.PitchDiffCents = math.Abs(CentsBetween(rf, cf))
		pitchNorm = clamp01(m.PitchDiffCents / 100.0)
	}

	timeNorm := clamp01(m.TimeRMSE / 0.25)
	envNorm := clamp01(m.EnvelopeRMSEDB / 30.0)
	specNorm := clamp01(m.SpectralRMSEDB / 30.0)
	decNorm := clamp01(m.DecayDiffDBPerS / 40.0)
	m.Score = clamp01(0.20*timeNorm + 0.25*envNorm + 0.25*specNorm + 0.15*decNorm + 0.15*pitchNorm)
	m.Similarity = clamp01(math.Exp(-4.0 * m.Score))
	return m
}

// estimateLag finds the shift in [-maxLag, maxLag] that maximises the
// cross-correlation sum ref[i+lag]*cand[i]. The correlation is computed as a
// convolution with the reversed candidate.
func estimateLag(ref []float64, cand []float64, maxLag int) int {
	if len(ref) == 0 || len(cand) == 0 {
		return 0
	}
	a := make([]float32, len(ref))
	for i, v := range ref {
		a[i] = float32(v)
	}
	rev := make([]float32, len(cand))
	for i, v := range cand {
		rev[len(cand)-1-i] = float32(v)
	}
	corr := make([]float32, len(a)+len(rev)-1)
	if err := algofft.ConvolveReal(corr, a, rev); err != nil {
		return estimateLagDirect(ref, cand, maxLag)
	}

	zero := len(cand) - 1
	bestLag := 0
	best := math.Inf(-1)
	for lag := -maxLag; lag <= maxLag; lag++ {
		k := zero + lag
		if k < 0 || k >= len(corr) {
			continue
		}
		if v := float64(corr[k]); v > best {
			best = v
			bestLag = lag
		}
	}
	return bestLag
}

func estimateLagDirect(ref []float64, cand []float64, maxLag int) int {
	bestLag := 0
	best := math.Inf(-1)
	for lag := -maxLag; lag <= maxLag; lag++ {
		if s := dotAtLag(ref, cand, lag); s > best {
			best = s
			bestLag = lag
		}
	}
	return bestLag
}

func dotAtLag(a []float64, b []float64, lag int) float64 {
	ai, bi := 0, 0
	if lag >= 0 {
		ai = lag
	} else {
		bi = -lag
	}
	n := min(len(a)-ai, len(b)-bi)
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[ai+i] * b[bi+i]
	}
	return sum
}

func alignByLag(ref []float64, cand []float64, lag int) ([]float64, []float64) {
	if lag >= 0 {
		if lag >= len(ref) {
			return nil, nil
		}
		return ref[lag:], cand
	}
	if -lag >= len(cand) {
		return nil, nil
	}
	return ref, cand[-lag:]
}
