package notes

// accidentalSlots places each black key relative to the white keys: slot i
// means the key straddles white keys i and i+1.
var accidentalSlots = map[string]int{
	"C#4": 0, "D#4": 1, "F#4": 3, "G#4": 4, "A#4": 5,
	"C#5": 7, "D#5": 8, "F#5": 10, "G#5": 11, "A#5": 12,
}

// OffsetOf returns the horizontal slot of an accidental among the natural
// keys. Ids that are not accidentals map to slot 0.
func OffsetOf(id string) int {
	return accidentalSlots[id]
}

// BlackKeyLeft returns the left edge of an accidental for a layout whose white
// keys are whiteWidth wide, with inset shifting the black key onto the gap.
// The browser layout uses 64px white keys and a 44px inset.
func BlackKeyLeft(id string, whiteWidth, inset int) int {
	return OffsetOf(id)*whiteWidth + inset
}

// WhiteKeyLeft returns the left edge of a natural key, or -1 for accidentals
// and unknown ids.
func WhiteKeyLeft(id string, whiteWidth int) int {
	i := Index(id)
	if i < 0 || table[i].Class != Natural {
		return -1
	}
	slot := 0
	for _, n := range table[:i] {
		if n.Class == Natural {
			slot++
		}
	}
	return slot * whiteWidth
}
