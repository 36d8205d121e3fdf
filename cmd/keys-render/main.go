package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/algo-keys/engine"
	"github.com/cwbudde/algo-keys/internal/wavio"
	"github.com/cwbudde/algo-keys/notes"
	"github.com/cwbudde/algo-keys/preset"
	"github.com/cwbudde/algo-keys/synth"
)

func main() {
	noteList := flag.String("notes", "C4,E4,G4", "Comma-separated note ids to strike in order, e.g. C4,F#4,A5")
	spacing := flag.Float64("spacing", 0.25, "Seconds between consecutive strikes (0 plays a chord)")
	tail := flag.Float64("tail", 1.2, "Seconds rendered after the last strike")
	presetPath := flag.String("preset", "", "Preset JSON file path (optional)")
	waveform := flag.String("waveform", "", "Waveform override: sine|square|sawtooth|triangle")
	sampleRate := flag.Int("sample-rate", 0, "Render sample rate in Hz (0 uses the preset)")
	blockSize := flag.Int("block-size", engine.DefaultBlockSize, "Frames rendered per block")
	output := flag.String("output", "output.wav", "Output WAV file path")
	flag.Parse()

	settings := preset.NewDefaultSettings()
	if *presetPath != "" {
		s, err := preset.LoadJSON(*presetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading preset %q: %v\n", *presetPath, err)
			os.Exit(1)
		}
		settings = s
	}
	if *waveform != "" {
		w, err := synth.ParseWaveform(*waveform)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		settings.Synth.Waveform = w
	}
	if *sampleRate > 0 {
		settings.SampleRate = *sampleRate
	}
	if *spacing < 0 {
		fmt.Fprintln(os.Stderr, "Error: spacing must be >= 0")
		os.Exit(1)
	}

	strikes, err := parseStrikes(*noteList, *spacing)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Rendering %d strikes (%s), spacing %.3fs, tail %.2fs at %d Hz, waveform %s...\n",
		len(strikes), *noteList, *spacing, *tail, settings.SampleRate, settings.Synth.Waveform)

	s := synth.New(&settings.Synth)
	samples, err := engine.RenderOffline(s, engine.Options{
		SampleRate: settings.SampleRate,
		OutputGain: settings.Synth.OutputGain,
	}, strikes, *tail, *blockSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		os.Exit(1)
	}

	if err := wavio.WriteStereo(*output, samples, settings.SampleRate); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing WAV file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully wrote %s (%d frames, RMS %.4f)\n", *output, len(samples)/2, wavio.RMS(samples))
}

// parseStrikes resolves note ids and places them spacing seconds apart.
func parseStrikes(list string, spacing float64) ([]engine.Strike, error) {
	var strikes []engine.Strike
	for _, raw := range strings.Split(list, ",") {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		n, err := notes.Lookup(id)
		if err != nil {
			return nil, err
		}
		strikes = append(strikes, engine.Strike{
			At:        float64(len(strikes)) * spacing,
			Frequency: n.Frequency,
		})
	}
	if len(strikes) == 0 {
		return nil, fmt.Errorf("no notes given")
	}
	return strikes, nil
}
