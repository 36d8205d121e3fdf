package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cwbudde/algo-keys/analysis"
	"github.com/cwbudde/algo-keys/internal/wavio"
	"github.com/cwbudde/algo-keys/notes"
	"github.com/cwbudde/algo-keys/preset"
)

type runReport struct {
	ReferencePath  string             `json:"reference_path"`
	PresetPath     string             `json:"preset_path,omitempty"`
	OutputPreset   string             `json:"output_preset"`
	Note           string             `json:"note"`
	SampleRate     int                `json:"sample_rate"`
	ElapsedSec     float64            `json:"elapsed_seconds"`
	Evaluations    int                `json:"evaluations"`
	MayflyVariant  string             `json:"mayfly_variant"`
	BestScore      float64            `json:"best_score"`
	BestSimilarity float64            `json:"best_similarity"`
	BestMetrics    analysis.Metrics   `json:"best_metrics"`
	BestKnobs      map[string]float64 `json:"best_knobs"`
}

func main() {
	referencePath := flag.String("reference", "reference/a4.wav", "Reference WAV path")
	presetPath := flag.String("preset", "", "Base preset JSON path (optional)")
	outputPreset := flag.String("output-preset", "out/fitted.json", "Path to write the fitted preset JSON")
	reportPath := flag.String("report", "", "Optional report JSON path (default: <output-preset>.report.json)")
	noteID := flag.String("note", "A4", "Note id played in the reference")
	sampleRate := flag.Int("sample-rate", 0, "Render/analysis sample rate (0 uses the preset)")
	duration := flag.Float64("duration", 1.5, "Seconds rendered per evaluation")
	seed := flag.Int64("seed", 1, "Random seed")
	timeBudget := flag.Float64("time-budget", 60.0, "Optimization time budget in seconds")
	maxEvals := flag.Int("max-evals", 2000, "Maximum objective evaluations")
	reportEvery := flag.Int("report-every", 50, "Print progress every N evaluations")
	workers := flag.String("workers", "1", "Parallel workers running independent Mayfly rounds (number or 'auto')")
	mayflyVariant := flag.String("mayfly-variant", "desma", "Mayfly variant: ma|desma|olce|eobbma|gsasma|mpma|aoblmoa")
	mayflyPop := flag.Int("mayfly-pop", 10, "Male and female population size per Mayfly run")
	mayflyRoundEvals := flag.Int("mayfly-round-evals", 200, "Target eval budget per Mayfly round")
	flag.Parse()

	if *outputPreset == "" {
		die("output-preset must not be empty")
	}
	if *maxEvals < 1 {
		die("max-evals must be >= 1")
	}
	if *timeBudget <= 0 {
		die("time-budget must be > 0")
	}
	if *mayflyPop < 2 {
		*mayflyPop = 2
	}
	nWorkers, err := parseWorkers(*workers)
	if err != nil {
		die("%v", err)
	}
	note, err := notes.Lookup(*noteID)
	if err != nil {
		die("%v", err)
	}

	settings := preset.NewDefaultSettings()
	if *presetPath != "" {
		if settings, err = preset.LoadJSON(*presetPath); err != nil {
			die("failed to load preset: %v", err)
		}
	}
	if *sampleRate > 0 {
		settings.SampleRate = *sampleRate
	}

	ref, err := wavio.ReadMonoAt(*referencePath, settings.SampleRate)
	if err != nil {
		die("failed to read reference: %v", err)
	}

	variant := strings.ToLower(*mayflyVariant)
	cfg := &fitConfig{
		reference:   ref,
		base:        &settings.Synth,
		defs:        envelopeKnobs,
		frequency:   note.Frequency,
		sampleRate:  settings.SampleRate,
		duration:    *duration,
		seed:        *seed,
		timeBudget:  time.Duration(*timeBudget * float64(time.Second)),
		maxEvals:    *maxEvals,
		reportEvery: *reportEvery,
		variant:     variant,
		pop:         *mayflyPop,
		roundEvals:  *mayflyRoundEvals,
		workers:     nWorkers,
	}
	if _, err := newMayflyConfig(variant, cfg.pop, len(cfg.defs), 1); err != nil {
		die("%v", err)
	}

	res, err := runFit(cfg)
	if err != nil {
		die("fit failed: %v", err)
	}

	settings.Synth = *res.params
	if err := preset.SaveJSON(*outputPreset, settings); err != nil {
		die("failed to write preset: %v", err)
	}
	rp := *reportPath
	if rp == "" {
		rp = strings.TrimSuffix(*outputPreset, filepath.Ext(*outputPreset)) + ".report.json"
	}
	rep := runReport{
		ReferencePath:  *referencePath,
		PresetPath:     *presetPath,
		OutputPreset:   *outputPreset,
		Note:           note.ID,
		SampleRate:     settings.SampleRate,
		ElapsedSec:     res.elapsed.Seconds(),
		Evaluations:    res.evals,
		MayflyVariant:  variant,
		BestScore:      res.metrics.Score,
		BestSimilarity: res.metrics.Similarity,
		BestMetrics:    res.metrics,
		BestKnobs:      knobMap(cfg.defs, res.best),
	}
	if err := writeReport(rp, &rep); err != nil {
		die("failed to write report: %v", err)
	}

	fmt.Printf("Done evals=%d elapsed=%.1fs best score=%.4f similarity=%.2f%%\n",
		res.evals, res.elapsed.Seconds(), res.metrics.Score, res.metrics.Similarity*100.0)
	fmt.Printf("Wrote %s and %s\n", *outputPreset, rp)
}

func writeReport(path string, r *runReport) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
