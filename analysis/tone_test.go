package analysis

import (
	"errors"
	"math"
	"testing"
)

// makeKeyTone renders a 10ms linear attack to 0.3 followed by an exponential
// decay that reaches 0.01 one second after the onset, then silence.
func makeKeyTone(sr int, freq float64) []float64 {
	const (
		attack = 0.01
		peak   = 0.3
		decay  = 1.0
		floor  = 0.01
	)
	out := make([]float64, int(1.3*float64(sr)))
	for i := range out {
		t := float64(i) / float64(sr)
		var env float64
		switch {
		case t < attack:
			env = peak * t / attack
		case t < decay:
			env = peak * math.Pow(floor/peak, (t-attack)/(decay-attack))
		}
		out[i] = env * math.Sin(2*math.Pi*freq*t)
	}
	return out
}

func TestFundamentalHzOfSine(t *testing.T) {
	for _, f := range []float64{261.63, 440, 987.77} {
		x := makeDecaySine(48000, f, 1.0, 2.0)
		got, err := FundamentalHz(x, 48000)
		if err != nil {
			t.Fatalf("FundamentalHz(%f): %v", f, err)
		}
		if math.Abs(got-f) > 0.5 {
			t.Fatalf("fundamental = %f, want %f", got, f)
		}
	}
}

func TestFundamentalHzOfSilence(t *testing.T) {
	if _, err := FundamentalHz(make([]float64, 4096), 48000); !errors.Is(err, ErrSilent) {
		t.Fatalf("expected ErrSilent, got %v", err)
	}
	if _, err := FundamentalHz(nil, 48000); !errors.Is(err, ErrSilent) {
		t.Fatalf("expected ErrSilent for empty input, got %v", err)
	}
}

func TestAnalyzeToneMeasuresKeyEnvelope(t *testing.T) {
	m, err := AnalyzeTone(makeKeyTone(48000, 440), 48000)
	if err != nil {
		t.Fatalf("AnalyzeTone: %v", err)
	}
	if m.PeakAmplitude < 0.28 || m.PeakAmplitude > 0.3001 {
		t.Fatalf("peak amplitude = %f", m.PeakAmplitude)
	}
	if m.PeakTimeS < 0.008 || m.PeakTimeS > 0.016 {
		t.Fatalf("peak time = %f", m.PeakTimeS)
	}
	if m.AttackS < 0.005 || m.AttackS > 0.012 {
		t.Fatalf("attack = %f", m.AttackS)
	}
	if m.OnsetS > 0.004 {
		t.Fatalf("onset = %f", m.OnsetS)
	}
	if math.Abs(m.FundamentalHz-440) > 1 {
		t.Fatalf("fundamental = %f", m.FundamentalHz)
	}
	// 20*log10(0.01/0.3) over 0.99s is about -29.8 dB/s.
	if m.DecayDBPerS < -36 || m.DecayDBPerS > -24 {
		t.Fatalf("decay slope = %f dB/s", m.DecayDBPerS)
	}
	if m.SoundingS < 0.95 || m.SoundingS > 1.1 {
		t.Fatalf("sounding = %f s", m.SoundingS)
	}
}

func TestAnalyzeToneRejectsSilence(t *testing.T) {
	if _, err := AnalyzeTone(make([]float64, 48000), 48000); !errors.Is(err, ErrSilent) {
		t.Fatalf("expected ErrSilent, got %v", err)
	}
	if _, err := AnalyzeTone(makeKeyTone(48000, 440), 0); !errors.Is(err, ErrSilent) {
		t.Fatalf("expected ErrSilent for bad rate, got %v", err)
	}
}

func TestCentsBetween(t *testing.T) {
	if got := CentsBetween(440, 880); math.Abs(got-1200) > 1e-9 {
		t.Fatalf("octave = %f cents", got)
	}
	if !math.IsNaN(CentsBetween(0, 440)) {
		t.Fatalf("expected NaN for non-positive frequency")
	}
}
