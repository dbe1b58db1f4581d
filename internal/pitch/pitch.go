// Package pitch holds the MIDI pitch representation shared by every stage of
// the harmonization pipeline, and the step/alter/octave spelling tables the
// reader and writer use to move between MusicXML note-name notation and MIDI
// integers.
package pitch

// Pitch is a MIDI note number in 0..127. Rest is the sentinel for a silent
// slot; it never appears as an operand to arithmetic below.
type Pitch int

// Rest marks the absence of a sounding pitch.
const Rest Pitch = -1

// IsRest reports whether p is the rest sentinel.
func (p Pitch) IsRest() bool { return p == Rest }

// stepPC maps the seven diatonic letter names to pitch classes, the step
// letters MusicXML uses.
var stepPC = map[string]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

// stepOrder lists the seven letters in scale order starting at C, used when
// searching for the nearest enharmonic spelling of a pitch class.
var stepOrder = []string{"C", "D", "E", "F", "G", "A", "B"}

// FromStep converts a MusicXML (step, alter, octave) triple into a MIDI
// pitch: 12*(octave+1) + pc(step) + alter.
func FromStep(step string, alter, octave int) Pitch {
	pc, ok := stepPC[step]
	if !ok {
		pc = 0
	}
	return Pitch(12*(octave+1) + pc + alter)
}

// PitchClass returns p mod 12 in 0..11. Calling it on Rest is a programmer
// error; callers must check IsRest first.
func (p Pitch) PitchClass() int {
	pc := int(p) % 12
	if pc < 0 {
		pc += 12
	}
	return pc
}

// Octave returns the MusicXML octave number for p (4 = octave containing
// middle C).
func (p Pitch) Octave() int {
	return int(p)/12 - 1
}

// Clamp returns p shifted by whole octaves until it lies within [lo, hi],
// along with whether the cap was reached before landing in range (in which
// case the result is the nearer bound). iterCap bounds the number of ±12
// steps tried, mirroring the Part Extractor's fixed displacement loop.
func (p Pitch) Clamp(lo, hi Pitch, iterCap int) (clamped Pitch, hitCap bool) {
	clamped = p
	for i := 0; i < iterCap; i++ {
		if clamped >= lo && clamped <= hi {
			return clamped, false
		}
		if clamped < lo {
			clamped += 12
		} else {
			clamped -= 12
		}
	}
	if clamped < lo {
		return lo, true
	}
	if clamped > hi {
		return hi, true
	}
	return clamped, false
}

// InRange reports whether p falls within [lo, hi].
func (p Pitch) InRange(lo, hi Pitch) bool {
	return p >= lo && p <= hi
}

// PitchesWithClassInRange returns, in ascending order, every Pitch with
// pitch class pc that falls within [lo, hi].
func PitchesWithClassInRange(pc int, lo, hi Pitch) []Pitch {
	var out []Pitch
	start := int(lo) - (int(lo) % 12) + pc
	if start < int(lo) {
		start += 12
	}
	for v := start; v <= int(hi); v += 12 {
		if v >= int(lo) {
			out = append(out, Pitch(v))
		}
	}
	return out
}

// Spelling is a MusicXML pitch spelling: step letter, optional alteration,
// and octave.
type Spelling struct {
	Step   string
	Alter  int
	Octave int
}

// sharpSpelling and flatSpelling give, for each pitch class, the spelling
// preferred when the key favors sharps or flats respectively. Naturals (C D
// E F G A B at their home pitch classes) are identical in both tables and
// are always preferred over an altered spelling of the same class.
var sharpSpelling = [12]Spelling{
	{"C", 0, 0}, {"C", 1, 0}, {"D", 0, 0}, {"D", 1, 0}, {"E", 0, 0}, {"F", 0, 0},
	{"F", 1, 0}, {"G", 0, 0}, {"G", 1, 0}, {"A", 0, 0}, {"A", 1, 0}, {"B", 0, 0},
}

var flatSpelling = [12]Spelling{
	{"C", 0, 0}, {"D", -1, 0}, {"D", 0, 0}, {"E", -1, 0}, {"E", 0, 0}, {"F", 0, 0},
	{"G", -1, 0}, {"G", 0, 0}, {"A", -1, 0}, {"A", 0, 0}, {"B", -1, 0}, {"B", 0, 0},
}

// Spell converts p into a (step, alter, octave) triple. fifths selects the
// sharp or flat spelling table for the non-natural pitch classes, per the
// key signature: fifths >= 0 prefers sharps, fifths < 0 prefers flats.
func Spell(p Pitch, fifths int) Spelling {
	table := sharpSpelling
	if fifths < 0 {
		table = flatSpelling
	}
	s := table[p.PitchClass()]
	s.Octave = p.Octave()
	return s
}

// MaxNote is the highest valid MIDI note number.
const MaxNote = 127
