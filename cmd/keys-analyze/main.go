package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-keys/analysis"
	"github.com/cwbudde/algo-keys/internal/wavio"
)

type report struct {
	Input     string                `json:"input"`
	Reference string                `json:"reference,omitempty"`
	Tone      analysis.ToneMetrics  `json:"tone"`
	Compare   *analysis.Metrics     `json:"compare,omitempty"`
	RefTone   *analysis.ToneMetrics `json:"reference_tone,omitempty"`
}

func main() {
	inputPath := flag.String("input", "output.wav", "WAV file to analyze")
	refPath := flag.String("reference", "", "Optional reference WAV to compare against")
	sampleRate := flag.Int("sample-rate", 0, "Analysis sample rate (0 uses the input's rate)")
	flag.Parse()

	r, err := analyze(*inputPath, *refPath, *sampleRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
}

func analyze(inputPath, refPath string, sampleRate int) (*report, error) {
	x, rate, err := wavio.ReadMono(inputPath)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	if sampleRate > 0 && sampleRate != rate {
		if x, err = wavio.Resample(x, rate, sampleRate); err != nil {
			return nil, err
		}
		rate = sampleRate
	}

	r := &report{Input: inputPath, Reference: refPath}
	if r.Tone, err = analysis.AnalyzeTone(x, rate); err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	if refPath == "" {
		return r, nil
	}

	ref, err := wavio.ReadMonoAt(refPath, rate)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	m := analysis.Compare(ref, x, rate)
	r.Compare = &m
	if rt, err := analysis.AnalyzeTone(ref, rate); err == nil {
		r.RefTone = &rt
	}
	return r, nil
}
