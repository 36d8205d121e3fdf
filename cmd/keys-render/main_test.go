package main

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-keys/notes"
)

func TestParseStrikes(t *testing.T) {
	strikes, err := parseStrikes(" C4, F#4 ,,A5", 0.5)
	if err != nil {
		t.Fatalf("parseStrikes: %v", err)
	}
	if len(strikes) != 3 {
		t.Fatalf("got %d strikes, want 3", len(strikes))
	}
	if strikes[1].At != 0.5 || strikes[2].At != 1.0 {
		t.Fatalf("unexpected strike times: %+v", strikes)
	}
	if strikes[2].Frequency != notes.MustLookup("A5").Frequency {
		t.Fatalf("A5 frequency = %f", strikes[2].Frequency)
	}
}

func TestParseStrikesRejectsUnknownAndEmpty(t *testing.T) {
	if _, err := parseStrikes("C4,X9", 0.1); !errors.Is(err, notes.ErrUnknownNote) {
		t.Fatalf("expected ErrUnknownNote, got %v", err)
	}
	if _, err := parseStrikes(" , ", 0.1); err == nil {
		t.Fatalf("expected error for empty list")
	}
}
