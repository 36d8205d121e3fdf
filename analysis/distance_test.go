package analysis

import (
	"math"
	"math/rand"
	"testing"
)

func TestCompareIdenticalSignalsHasLowDistance(t *testing.T) {
	sr := 48000
	x := makeDecaySine(sr, 440.0, 1.5, 0.7)
	m := Compare(x, x, sr)
	if m.Score > 0.05 {
		t.Fatalf("expected very low score for identical signals, got %f", m.Score)
	}
	if m.Similarity < 0.85 {
		t.Fatalf("expected high similarity for identical signals, got %f", m.Similarity)
	}
	if m.LagSamples != 0 || m.PitchDiffCents > 1 {
		t.Fatalf("identical signals misaligned: lag=%d cents=%f", m.LagSamples, m.PitchDiffCents)
	}
}

func TestCompareDifferentSignalsHasHigherDistance(t *testing.T) {
	sr := 48000
	a := makeDecaySine(sr, 261.63, 1.8, 0.8)
	b := makeDecaySine(sr, 330.0, 0.8, 0.25)
	m := Compare(a, b, sr)
	if m.Score < 0.25 {
		t.Fatalf("expected higher score for different signals, got %f", m.Score)
	}
	if math.Abs(m.PitchDiffCents-CentsBetween(261.63, 330)) > 10 {
		t.Fatalf("pitch diff = %f cents", m.PitchDiffCents)
	}
}

func TestCompareEmptyInputIsWorstScore(t *testing.T) {
	m := Compare(nil, makeDecaySine(48000, 440, 0.5, 0.2), 48000)
	if m.Score != 1 || m.Similarity != 0 {
		t.Fatalf("expected worst score, got %+v", m)
	}
	silent := make([]float64, 4800)
	if m := Compare(silent, silent, 48000); m.Score != 1 {
		t.Fatalf("silent input should score 1, got %f", m.Score)
	}
}

func TestEstimateLagFindsPositiveShift(t *testing.T) {
	const (
		n      = 8192
		shift  = 237
		maxLag = 600
	)
	ref := randomSignal(n, 7)
	cand := make([]float64, n)
	copy(cand, ref[shift:])

	if got := estimateLag(ref, cand, maxLag); got != shift {
		t.Fatalf("estimateLag() = %d, want %d", got, shift)
	}
}

func TestEstimateLagFindsNegativeShift(t *testing.T) {
	const (
		n      = 8192
		shift  = -191
		maxLag = 600
	)
	ref := randomSignal(n, 11)
	cand := make([]float64, n)
	copy(cand[-shift:], ref)

	if got := estimateLag(ref, cand, maxLag); got != shift {
		t.Fatalf("estimateLag() = %d, want %d", got, shift)
	}
}

func TestEstimateLagMatchesDirect(t *testing.T) {
	const (
		n      = 16000
		shift  = 443
		maxLag = 1000
	)
	ref := randomSignal(n, 23)
	cand := make([]float64, n)
	copy(cand, ref[shift:])

	got := estimateLag(ref, cand, maxLag)
	want := estimateLagDirect(ref, cand, maxLag)
	if got != want {
		t.Fatalf("estimateLag() = %d, direct = %d", got, want)
	}
}

func BenchmarkCompare(b *testing.B) {
	ref := makeDecaySine(48000, 440, 3, 0.8)
	cand := makeDecaySine(48000, 442, 3, 0.6)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Compare(ref, cand, 48000)
	}
}

func makeDecaySine(sr int, freq float64, durationSec float64, decaySec float64) []float64 {
	n := max(int(float64(sr)*durationSec), 1)
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / float64(sr)
		out[i] = math.Exp(-t/decaySec) * math.Sin(2*math.Pi*freq*t)
	}
	return out
}

func randomSignal(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64()*2 - 1
	}
	return out
}
