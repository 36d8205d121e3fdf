package main

import (
	"fmt"

	"github.com/cwbudde/algo-keys/notes"
)

// naturalKeys are the home-row keys for C through the next C.
var naturalKeys = []string{"a", "s", "d", "f", "g", "h", "j", "k"}
var naturalNames = []string{"C", "D", "E", "F", "G", "A", "B", "C"}

// accidentalKeys sit on the row above, between their naturals.
var accidentalKeys = map[string]string{"w": "C#", "e": "D#", "t": "F#", "y": "G#", "u": "A#"}

const (
	lowestOctave  = 4
	highestOctave = 5
)

// noteForKey maps a key press to a note id in the given octave. Keys that
// land outside the keyboard, such as the upper C in the top octave, resolve
// to nothing.
func noteForKey(key string, octave int) (string, bool) {
	id := ""
	for i, k := range naturalKeys {
		if k == key {
			o := octave
			if i == len(naturalKeys)-1 {
				o++
			}
			id = fmt.Sprintf("%s%d", naturalNames[i], o)
			break
		}
	}
	if name, ok := accidentalKeys[key]; ok {
		id = fmt.Sprintf("%s%d", name, octave)
	}
	if id == "" || notes.Index(id) < 0 {
		return "", false
	}
	return id, true
}
