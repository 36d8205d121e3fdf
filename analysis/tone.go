package analysis

import "math"

const (
	attackFrame = 256
	attackHop   = 32
	decayFrame  = 1024
	decayHop    = 256
)

// ToneMetrics describes a single struck note. Rising-edge times refer to the
// end of a trailing peak-hold window.
type ToneMetrics struct {
	SampleRate int `json:"sample_rate"`
	Frames     int `json:"frames"`

	PeakAmplitude float64 `json:"peak_amplitude"`
	PeakTimeS     float64 `json:"peak_time_s"`
	OnsetS        float64 `json:"onset_s"`
	AttackS       float64 `json:"attack_s"` // 10% to 90% of peak

	FundamentalHz float64 `json:"fundamental_hz"`
	DecayDBPerS   float64 `json:"decay_db_per_s"`
	SoundingS     float64 `json:"sounding_s"` // onset until 60 dB below peak
}

// AnalyzeTone measures the envelope and pitch of a mono note recording.
func AnalyzeTone(x []float64, sampleRate int) (ToneMetrics, error) {
	m := ToneMetrics{SampleRate: sampleRate, Frames: len(x)}
	if sampleRate <= 0 {
		return m, ErrSilent
	}
	sr := float64(sampleRate)

	padded := make([]float64, attackFrame+len(x))
	copy(padded[attackFrame:], x)
	penv := peakEnvelope(padded, attackFrame, attackHop)
	if len(penv) == 0 {
		return m, ErrSilent
	}
	p := argmax(penv)
	peak := penv[p]
	if peak <= 1e-9 {
		return m, ErrSilent
	}
	windowEnd := func(i int) float64 { return float64(i*attackHop) / sr }

	m.PeakAmplitude = maxAbs(x)
	m.PeakTimeS = windowEnd(p)
	i10, i90 := -1, -1
	for i := 0; i <= p; i++ {
		if i10 < 0 && penv[i] >= 0.1*peak {
			i10 = i
		}
		if i90 < 0 && penv[i] >= 0.9*peak {
			i90 = i
			break
		}
	}
	m.OnsetS = windowEnd(i10)
	m.AttackS = float64(i90-i10) * attackHop / sr

	startSample := min(p*attackHop, len(x))
	if f, err := FundamentalHz(x[startSample:], sampleRate); err == nil {
		m.FundamentalHz = f
	}

	renv := rmsEnvelope(x, decayFrame, decayHop)
	m.DecayDBPerS = finiteOrZero(decaySlopeDBPerS(renv, decayHop/sr))
	if len(renv) > 0 {
		threshold := linToDB(renv[argmax(renv)]) - 60
		last := -1
		for i, v := range renv {
			if linToDB(v) >= threshold {
				last = i
			}
		}
		if last >= 0 {
			end := float64(last*decayHop+decayFrame) / sr
			m.SoundingS = math.Max(0, end-m.OnsetS)
		}
	}
	return m, nil
}
