package notes

import (
	"errors"
	"fmt"
)

// ErrUnknownNote is returned when a note id is not part of the keyboard.
var ErrUnknownNote = errors.New("unknown note")

// Class distinguishes white (natural) from black (accidental) keys.
type Class int

const (
	Natural Class = iota
	Accidental
)

func (c Class) String() string {
	switch c {
	case Natural:
		return "natural"
	case Accidental:
		return "accidental"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Note is one key of the two-octave keyboard.
type Note struct {
	ID        string
	Frequency float64 // Hz, equal temperament rounded to 0.01
	Class     Class
	MIDI      int // C4 = 60
}

// IsAccidental reports whether the note sits on a black key.
func (n Note) IsAccidental() bool {
	return n.Class == Accidental
}

// table is ordered by pitch, C4..B5.
var table = [...]Note{
	{ID: "C4", Frequency: 261.63, Class: Natural, MIDI: 60},
	{ID: "C#4", Frequency: 277.18, Class: Accidental, MIDI: 61},
	{ID: "D4", Frequency: 293.66, Class: Natural, MIDI: 62},
	{ID: "D#4", Frequency: 311.13, Class: Accidental, MIDI: 63},
	{ID: "E4", Frequency: 329.63, Class: Natural, MIDI: 64},
	{ID: "F4", Frequency: 349.23, Class: Natural, MIDI: 65},
	{ID: "F#4", Frequency: 369.99, Class: Accidental, MIDI: 66},
	{ID: "G4", Frequency: 392.00, Class: Natural, MIDI: 67},
	{ID: "G#4", Frequency: 415.30, Class: Accidental, MIDI: 68},
	{ID: "A4", Frequency: 440.00, Class: Natural, MIDI: 69},
	{ID: "A#4", Frequency: 466.16, Class: Accidental, MIDI: 70},
	{ID: "B4", Frequency: 493.88, Class: Natural, MIDI: 71},
	{ID: "C5", Frequency: 523.25, Class: Natural, MIDI: 72},
	{ID: "C#5", Frequency: 554.37, Class: Accidental, MIDI: 73},
	{ID: "D5", Frequency: 587.33, Class: Natural, MIDI: 74},
	{ID: "D#5", Frequency: 622.25, Class: Accidental, MIDI: 75},
	{ID: "E5", Frequency: 659.25, Class: Natural, MIDI: 76},
	{ID: "F5", Frequency: 698.46, Class: Natural, MIDI: 77},
	{ID: "F#5", Frequency: 739.99, Class: Accidental, MIDI: 78},
	{ID: "G5", Frequency: 783.99, Class: Natural, MIDI: 79},
	{ID: "G#5", Frequency: 830.61, Class: Accidental, MIDI: 80},
	{ID: "A5", Frequency: 880.00, Class: Natural, MIDI: 81},
	{ID: "A#5", Frequency: 932.33, Class: Accidental, MIDI: 82},
	{ID: "B5", Frequency: 987.77, Class: Natural, MIDI: 83},
}

var byID = func() map[string]int {
	m := make(map[string]int, len(table))
	for i, n := range table {
		m[n.ID] = i
	}
	return m
}()

// Count is the number of keys on the keyboard.
const Count = len(table)

// Lookup resolves a note id. Unknown ids return ErrUnknownNote.
func Lookup(id string) (Note, error) {
	i, ok := byID[id]
	if !ok {
		return Note{}, fmt.Errorf("%w: %q", ErrUnknownNote, id)
	}
	return table[i], nil
}

// MustLookup is Lookup for ids known at compile time.
func MustLookup(id string) Note {
	n, err := Lookup(id)
	if err != nil {
		panic(err)
	}
	return n
}

// Index returns the pitch-order position of id, or -1.
func Index(id string) int {
	i, ok := byID[id]
	if !ok {
		return -1
	}
	return i
}

// All returns every note in pitch order.
func All() []Note {
	out := make([]Note, len(table))
	copy(out, table[:])
	return out
}

// Naturals returns the white keys in pitch order.
func Naturals() []Note {
	return filter(Natural)
}

// Accidentals returns the black keys in pitch order.
func Accidentals() []Note {
	return filter(Accidental)
}

func filter(c Class) []Note {
	out := make([]Note, 0, len(table))
	for _, n := range table {
		if n.Class == c {
			out = append(out, n)
		}
	}
	return out
}
