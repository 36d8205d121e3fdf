package main

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cwbudde/algo-keys/engine"
	"github.com/cwbudde/algo-keys/internal/wavio"
	"github.com/cwbudde/algo-keys/synth"
)

func TestNewMayflyConfig(t *testing.T) {
	tests := []struct {
		variant string
		wantErr bool
	}{
		{variant: "ma"},
		{variant: "desma"},
		{variant: "olce"},
		{variant: "eobbma"},
		{variant: "gsasma"},
		{variant: "mpma"},
		{variant: "aoblmoa"},
		{variant: "bogus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			cfg, err := newMayflyConfig(tt.variant, 10, 4, 20)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("newMayflyConfig(%q) expected error", tt.variant)
				}
				return
			}
			if err != nil {
				t.Fatalf("newMayflyConfig(%q) unexpected error: %v", tt.variant, err)
			}
			if cfg.ProblemSize != 4 || cfg.NPop != 10 || cfg.MaxIterations != 20 {
				t.Fatalf("unexpected config: size=%d pop=%d iters=%d", cfg.ProblemSize, cfg.NPop, cfg.MaxIterations)
			}
		})
	}
}

func TestReserveEvalCapsAtMax(t *testing.T) {
	const (
		maxEvals = 47
		workers  = 8
	)
	var evals, granted int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if _, ok := reserveEval(&evals, maxEvals); !ok {
					return
				}
				atomic.AddInt64(&granted, 1)
			}
		}()
	}
	wg.Wait()
	if granted != maxEvals || evals != maxEvals {
		t.Fatalf("granted=%d evals=%d, want %d", granted, evals, maxEvals)
	}
}

func TestParseWorkers(t *testing.T) {
	if n, err := parseWorkers(" Auto "); err != nil || n != 0 {
		t.Fatalf("auto = %d, %v", n, err)
	}
	if n, err := parseWorkers("3"); err != nil || n != 3 {
		t.Fatalf("3 = %d, %v", n, err)
	}
	for _, bad := range []string{"", "0", "-2", "many"} {
		if _, err := parseWorkers(bad); err == nil {
			t.Fatalf("parseWorkers(%q) expected error", bad)
		}
	}
}

func referenceFor(t *testing.T, p *synth.Params) []float64 {
	t.Helper()
	out, err := engine.RenderOffline(synth.New(p), engine.Options{SampleRate: 16000}, []engine.Strike{{Frequency: 440}}, 1.2, 0)
	if err != nil {
		t.Fatalf("RenderOffline: %v", err)
	}
	return wavio.StereoToMono(out)
}

func TestEvaluateMatchingEnvelopeScoresLow(t *testing.T) {
	base := synth.NewDefaultParams()
	cfg := &fitConfig{
		reference:  referenceFor(t, base),
		base:       base,
		defs:       envelopeKnobs,
		frequency:  440,
		sampleRate: 16000,
		duration:   1.2,
	}
	same, _, err := evaluate(cfg, initCandidate(base, envelopeKnobs))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	other, _, err := evaluate(cfg, fromNormalized([]float64{1, 1, 0, 1}, envelopeKnobs))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if same.Score > 0.05 {
		t.Fatalf("matching envelope score = %f", same.Score)
	}
	if other.Score <= same.Score {
		t.Fatalf("mismatched envelope scored %f, matching %f", other.Score, same.Score)
	}
}

func TestRunFitNeverWorsensScore(t *testing.T) {
	target := synth.NewDefaultParams()
	target.Decay = 0.5
	start := synth.NewDefaultParams()
	start.Decay = 2.5
	cfg := &fitConfig{
		reference:  referenceFor(t, target),
		base:       start,
		defs:       envelopeKnobs,
		frequency:  440,
		sampleRate: 16000,
		duration:   1.2,
		seed:       3,
		timeBudget: 30 * time.Second,
		maxEvals:   40,
		variant:    "ma",
		pop:        4,
		roundEvals: 40,
		workers:    1,
	}
	initial, _, err := evaluate(cfg, initCandidate(start, envelopeKnobs))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	res, err := runFit(cfg)
	if err != nil {
		t.Fatalf("runFit: %v", err)
	}
	if res.metrics.Score > initial.Score {
		t.Fatalf("fit worsened score: %f > %f", res.metrics.Score, initial.Score)
	}
	if err := res.params.Validate(); err != nil {
		t.Fatalf("fitted params invalid: %v", err)
	}
	if res.evals > cfg.maxEvals {
		t.Fatalf("evals = %d, cap %d", res.evals, cfg.maxEvals)
	}
}
