package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwbudde/algo-keys/engine"
	"github.com/cwbudde/algo-keys/keyboard"
	"github.com/cwbudde/algo-keys/preset"
	"github.com/cwbudde/algo-keys/synth"
)

func main() {
	presetPath := flag.String("preset", "", "Preset JSON file path (optional)")
	silent := flag.Bool("silent", false, "Run without opening an audio device")
	resetPolicy := flag.String("reset-policy", "", "Highlight reset policy override: unconditional|latest")
	logPath := flag.String("log", "", "Append warnings to this file (default: discard)")
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
	if *resetPolicy != "" {
		p, err := keyboard.ParseResetPolicy(*resetPolicy)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		settings.ResetPolicy = p
	}

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}

	var open keyboard.Opener
	if !*silent {
		open = func() (*engine.Handle, error) {
			return engine.Open(engine.Options{
				SampleRate: settings.SampleRate,
				OutputGain: settings.Synth.OutputGain,
				Backend:    engine.NewOtoBackend(settings.BufferSize()),
			})
		}
	}

	var p *tea.Program
	// Trigger runs inside Update, so notifications must not block the event loop.
	ctrl := keyboard.NewController(keyboard.Options{
		Open:       open,
		Synth:      synth.New(&settings.Synth),
		ResetAfter: settings.VisualReset,
		Policy:     settings.ResetPolicy,
		Logger:     log.New(logOut, "keys-tui: ", log.LstdFlags),
		OnChange: func(keyboard.State) {
			go p.Send(refreshMsg{})
		},
	})
	p = tea.NewProgram(newModel(ctrl))
	if err := ctrl.Mount(); err != nil {
		fmt.Fprintf(os.Stderr, "Error mounting keyboard: %v\n", err)
		os.Exit(1)
	}

	_, runErr := p.Run()
	if err := ctrl.Unmount(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing audio: %v\n", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
