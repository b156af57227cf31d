package engine

import "math"

// Standard 1V/octave pitch CV
const (
	SemitonesPerOctave = 12
	VoltsPerSemitone   = 1.0 / SemitonesPerOctave
)

// ScaleID indexes the scale table; ScaleOff passes voltages through unchanged
type ScaleID int

const ScaleOff ScaleID = 0

// Scale is a mask of enabled semitones within one octave
type Scale struct {
	Name  string
	Notes [SemitonesPerOctave]bool
}

// Built-in scales. Index 0 is the "None" placeholder for ScaleOff; user
// scales loaded at startup are appended after these.
//
//                                   C     C#    D     D#    E     F     F#    G     G#    A     A#    B
var scaleTable = []Scale{
	{Name: "None"},
	{Name: "Chromatic", Notes: [12]bool{true, true, true, true, true, true, true, true, true, true, true, true}},
	{Name: "Nat Maj", Notes: [12]bool{true, false, true, false, true, true, false, true, false, true, false, true}},
	{Name: "Har Maj", Notes: [12]bool{true, false, true, false, true, true, false, true, true, false, true, false}},
	{Name: "Maj 135", Notes: [12]bool{true, false, false, false, true, false, false, true, false, false, false, false}},
	{Name: "Nat Min", Notes: [12]bool{true, false, true, true, false, true, false, true, true, false, true, false}},
	{Name: "Har Min", Notes: [12]bool{true, false, true, true, false, true, false, true, true, false, false, true}},
	{Name: "Min 135", Notes: [12]bool{true, false, false, true, false, false, false, true, false, false, false, false}},
	{Name: "Whole", Notes: [12]bool{true, false, true, false, true, false, true, false, true, false, true, false}},
	{Name: "135b7", Notes: [12]bool{true, false, false, false, true, false, false, true, false, false, true, false}},
}

// NumScales returns the current size of the scale table
func NumScales() int {
	return len(scaleTable)
}

// ScaleName returns the display name for a scale id
func ScaleName(id ScaleID) string {
	if id < 0 || int(id) >= len(scaleTable) {
		return "?"
	}
	return scaleTable[id].Name
}

// AddScale appends a user-defined scale to the table and returns its id.
// Called once at startup before the engine runs.
func AddScale(s Scale) ScaleID {
	scaleTable = append(scaleTable, s)
	return ScaleID(len(scaleTable) - 1)
}

// Quantize snaps a voltage to the nearest enabled semitone of the scale at
// 1V/octave. ScaleOff (or an empty mask) passes the value through. Exact
// ties resolve to the lower note. Quantizing an already-quantized voltage
// is a no-op.
func Quantize(volts float64, id ScaleID) float64 {
	if id <= ScaleOff || int(id) >= len(scaleTable) {
		return volts
	}
	sc := &scaleTable[id]
	any := false
	for _, on := range sc.Notes {
		if on {
			any = true
			break
		}
	}
	if !any {
		return volts
	}

	semi := volts / VoltsPerSemitone
	base := int(math.Floor(semi))

	// Scan enabled semitones in the octave around the input, lowest first,
	// so an exact tie keeps the lower candidate.
	bestNote := 0
	bestDelta := math.Inf(1)
	for n := base - SemitonesPerOctave; n <= base+SemitonesPerOctave+1; n++ {
		idx := ((n % SemitonesPerOctave) + SemitonesPerOctave) % SemitonesPerOctave
		if !sc.Notes[idx] {
			continue
		}
		delta := math.Abs(semi - float64(n))
		if delta < bestDelta {
			bestDelta = delta
			bestNote = n
		}
	}

	out := float64(bestNote) * VoltsPerSemitone
	if out < 0 {
		out = 0
	}
	if out > MaxVolts {
		// Walk down to the highest on-scale note that still fits
		for n := bestNote; n >= 0; n-- {
			idx := n % SemitonesPerOctave
			if sc.Notes[idx] && float64(n)*VoltsPerSemitone <= MaxVolts {
				out = float64(n) * VoltsPerSemitone
				break
			}
		}
	}
	return out
}
