package main

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-keys/analysis"
	"github.com/cwbudde/algo-keys/engine"
	"github.com/cwbudde/algo-keys/internal/wavio"
	"github.com/cwbudde/algo-keys/synth"
	"github.com/cwbudde/mayfly"
)

type fitConfig struct {
	reference   []float64
	base        *synth.Params
	defs        []knobDef
	frequency   float64
	sampleRate  int
	duration    float64
	seed        int64
	timeBudget  time.Duration
	maxEvals    int
	reportEvery int
	variant     string
	pop         int
	roundEvals  int
	workers     int
}

type fitResult struct {
	best    candidate
	params  *synth.Params
	metrics analysis.Metrics
	evals   int
	elapsed time.Duration
}

type fitState struct {
	mu      sync.Mutex
	best    candidate
	metrics analysis.Metrics
}

func (s *fitState) score() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics.Score
}

// evaluate renders one strike with the candidate envelope and scores it
// against the reference.
func evaluate(cfg *fitConfig, c candidate) (analysis.Metrics, *synth.Params, error) {
	p := applyCandidate(cfg.base, cfg.defs, c)
	out, err := engine.RenderOffline(synth.New(p), engine.Options{
		SampleRate: cfg.sampleRate,
		OutputGain: p.OutputGain,
	}, []engine.Strike{{Frequency: cfg.frequency}}, cfg.duration, 0)
	if err != nil {
		return analysis.Metrics{}, nil, err
	}
	return analysis.Compare(cfg.reference, wavio.StereoToMono(out), cfg.sampleRate), p, nil
}

func runFit(cfg *fitConfig) (*fitResult, error) {
	start := time.Now()
	deadline := start.Add(cfg.timeBudget)

	initial := initCandidate(cfg.base, cfg.defs)
	m, _, err := evaluate(cfg, initial)
	if err != nil {
		return nil, fmt.Errorf("initial evaluation failed: %w", err)
	}
	fmt.Printf("Start score=%.4f similarity=%.2f%%\n", m.Score, m.Similarity*100.0)
	state := &fitState{best: initial, metrics: m}

	var evals int64 = 1
	var rounds int64
	workers := cfg.workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(deadline) {
				remaining := cfg.maxEvals - int(atomic.LoadInt64(&evals))
				if remaining <= 0 {
					return
				}
				round := atomic.AddInt64(&rounds, 1)
				iters := max(1, min(cfg.roundEvals, remaining)/(2*cfg.pop))
				mcfg, err := newMayflyConfig(cfg.variant, cfg.pop, len(cfg.defs), iters)
				if err != nil {
					fmt.Printf("mayfly round %d setup failed: %v\n", round, err)
					return
				}
				mcfg.Rand = rand.New(rand.NewSource(cfg.seed + round*7919))
				mcfg.ObjectiveFunc = func(pos []float64) float64 {
					if time.Now().After(deadline) {
						return state.score() + 1.0
					}
					evalNum, ok := reserveEval(&evals, cfg.maxEvals)
					if !ok {
						return state.score() + 1.0
					}
					c := fromNormalized(pos, cfg.defs)
					m, _, err := evaluate(cfg, c)
					if err != nil {
						return state.score() + 0.8
					}
					state.mu.Lock()
					if m.Score < state.metrics.Score {
						state.best = c
						state.metrics = m
						fmt.Printf("Improved eval=%d score=%.4f sim=%.2f%% knobs=%s\n", evalNum, m.Score, m.Similarity*100.0, c)
					}
					best := state.metrics.Score
					state.mu.Unlock()
					if cfg.reportEvery > 0 && evalNum%int64(cfg.reportEvery) == 0 {
						fmt.Printf("Progress eval=%d/%d elapsed=%.1fs best=%.4f\n", evalNum, cfg.maxEvals, time.Since(start).Seconds(), best)
					}
					return m.Score
				}
				if _, err := runMayfly(mcfg); err != nil {
					fmt.Printf("mayfly round %d failed: %v\n", round, err)
				}
			}
		}()
	}
	wg.Wait()

	state.mu.Lock()
	defer state.mu.Unlock()
	return &fitResult{
		best:    state.best,
		params:  applyCandidate(cfg.base, cfg.defs, state.best),
		metrics: state.metrics,
		evals:   int(atomic.LoadInt64(&evals)),
		elapsed: time.Since(start),
	}, nil
}

func newMayflyConfig(variant string, pop int, dims int, iters int) (*mayfly.Config, error) {
	var cfg *mayfly.Config
	switch variant {
	case "ma":
		cfg = mayfly.NewDefaultConfig()
	case "desma":
		cfg = mayfly.NewDESMAConfig()
	case "olce":
		cfg = mayfly.NewOLCEConfig()
	case "eobbma":
		cfg = mayfly.NewEOBBMAConfig()
	case "gsasma":
		cfg = mayfly.NewGSASMAConfig()
	case "mpma":
		cfg = mayfly.NewMPMAConfig()
	case "aoblmoa":
		cfg = mayfly.NewAOBLMOAConfig()
	default:
		return nil, fmt.Errorf("unsupported variant %q", variant)
	}
	cfg.ProblemSize = dims
	cfg.LowerBound = 0.0
	cfg.UpperBound = 1.0
	cfg.MaxIterations = iters
	cfg.NPop = pop
	cfg.NPopF = pop
	cfg.NC = 2 * pop
	cfg.NM = max(1, int(math.Round(0.05*float64(pop))))
	return cfg, nil
}

func runMayfly(cfg *mayfly.Config) (_ *mayfly.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mayfly panic: %v", r)
		}
	}()
	return mayfly.Optimize(cfg)
}

func reserveEval(evals *int64, maxEvals int) (int64, bool) {
	for {
		cur := atomic.LoadInt64(evals)
		if cur >= int64(maxEvals) {
			return 0, false
		}
		if atomic.CompareAndSwapInt64(evals, cur, cur+1) {
			return cur + 1, true
		}
	}
}

// parseWorkers accepts a positive count or "auto" (0).
func parseWorkers(raw string) (int, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "auto" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid workers %q (use integer >= 1 or 'auto')", raw)
	}
	return n, nil
}
