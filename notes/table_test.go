package notes

import (
	"errors"
	"math"
	"testing"
)

func TestTableHasTwoOctaves(t *testing.T) {
	all := All()
	if len(all) != 24 || Count != 24 {
		t.Fatalf("expected 24 notes, got %d (Count=%d)", len(all), Count)
	}
	if all[0].ID != "C4" || all[len(all)-1].ID != "B5" {
		t.Fatalf("unexpected range: %s..%s", all[0].ID, all[len(all)-1].ID)
	}
	if len(Naturals()) != 14 || len(Accidentals()) != 10 {
		t.Fatalf("unexpected split: naturals=%d accidentals=%d", len(Naturals()), len(Accidentals()))
	}
}

func TestFrequenciesStrictlyIncrease(t *testing.T) {
	all := All()
	for i := 1; i < len(all); i++ {
		if all[i].Frequency <= all[i-1].Frequency {
			t.Fatalf("frequency not increasing at %s: %f <= %f", all[i].ID, all[i].Frequency, all[i-1].Frequency)
		}
		if all[i].MIDI != all[i-1].MIDI+1 {
			t.Fatalf("midi gap at %s", all[i].ID)
		}
	}
}

func TestFrequenciesMatchEqualTemperament(t *testing.T) {
	for _, n := range All() {
		want := 440.0 * math.Pow(2, float64(n.MIDI-69)/12.0)
		want = math.Round(want*100) / 100
		if math.Abs(n.Frequency-want) > 0.011 {
			t.Fatalf("%s: got=%f want=%f", n.ID, n.Frequency, want)
		}
	}
	if MustLookup("C4").Frequency != 261.63 || MustLookup("B5").Frequency != 987.77 {
		t.Fatalf("range endpoints changed")
	}
}

func TestClassificationFollowsTwelveToneLayout(t *testing.T) {
	all := All()
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		if prev.Class == Accidental && cur.Class == Accidental {
			t.Fatalf("adjacent accidentals %s %s", prev.ID, cur.ID)
		}
		if prev.Class == Natural && cur.Class == Natural {
			pair := prev.ID[:1] + cur.ID[:1]
			if pair != "EF" && pair != "BC" {
				t.Fatalf("adjacent naturals outside E-F/B-C: %s %s", prev.ID, cur.ID)
			}
		}
	}
}

func TestLookupUnknownNote(t *testing.T) {
	_, err := Lookup("H4")
	if !errors.Is(err, ErrUnknownNote) {
		t.Fatalf("expected ErrUnknownNote, got %v", err)
	}
	if Index("H4") != -1 {
		t.Fatalf("expected -1 index for unknown note")
	}
	n, err := Lookup("A4")
	if err != nil || n.Frequency != 440 || n.IsAccidental() {
		t.Fatalf("A4 lookup mismatch: %+v err=%v", n, err)
	}
}

func TestMustLookupPanicsOnUnknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	MustLookup("nope")
}

func TestClassString(t *testing.T) {
	if Natural.String() != "natural" || Accidental.String() != "accidental" {
		t.Fatalf("unexpected class names")
	}
	if Class(7).String() != "Class(7)" {
		t.Fatalf("unexpected fallback name %q", Class(7).String())
	}
}
