package layout

import "fmt"

// Standard keyboard proportions, in layout units. Black keys sit in the
// upper zone of the layout (smaller Y), overlapping the top of the white
// keys on either side.
const (
	WhiteKeyWidth  = 60.0
	WhiteKeyHeight = 220.0
	BlackKeyWidth  = 36.0
	BlackKeyHeight = 130.0
)

// whiteNotes are the naturals of one octave, left to right.
var whiteNotes = [7]string{"C", "D", "E", "F", "G", "A", "B"}

// blackAfter maps a white-key position within the octave to the accidental
// that follows it, or "" where no black key exists (E-F and B-C gaps).
var blackAfter = [7]string{"C#", "D#", "", "F#", "G#", "", "A#"}

// Generate builds a standard keyboard layout spanning the given number of
// octaves starting at the given octave number (e.g. Generate(2, 4) produces
// C4..B5). Keys are rectangular; white keys first in left-to-right order,
// then black keys, with indices assigned in that order.
func Generate(octaves, startOctave int) *Layout {
	if octaves < 1 {
		octaves = 1
	}

	var keys []Key
	index := 0

	// White keys across all octaves.
	for o := 0; o < octaves; o++ {
		for w := 0; w < len(whiteNotes); w++ {
			x := float64(o*len(whiteNotes)+w) * WhiteKeyWidth
			keys = append(keys, Key{
				Note:    fmt.Sprintf("%s%d", whiteNotes[w], startOctave+o),
				Type:    KeyWhite,
				Index:   index,
				Polygon: rectPolygon(x, 0, WhiteKeyWidth, WhiteKeyHeight),
			})
			index++
		}
	}

	// Black keys, centered on the boundary after their white neighbor.
	for o := 0; o < octaves; o++ {
		for w := 0; w < len(whiteNotes); w++ {
			name := blackAfter[w]
			if name == "" {
				continue
			}
			boundary := float64(o*len(whiteNotes)+w+1) * WhiteKeyWidth
			keys = append(keys, Key{
				Note:    fmt.Sprintf("%s%d", name, startOctave+o),
				Type:    KeyBlack,
				Index:   index,
				Polygon: rectPolygon(boundary-BlackKeyWidth/2, 0, BlackKeyWidth, BlackKeyHeight),
			})
			index++
		}
	}

	return New(keys)
}

// rectPolygon builds a clockwise rectangle with the given origin and size.
func rectPolygon(x, y, w, h float64) Polygon {
	return Polygon{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}
}
