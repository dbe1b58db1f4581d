package theory

// Quality is a triad quality.
type Quality string

const (
	MajorTriad      Quality = "major"
	MinorTriad      Quality = "minor"
	DiminishedTriad Quality = "diminished"
)

// thirdSemitones and fifthSemitones give the interval, in semitones above
// the root, of a triad's third and fifth for each quality.
var thirdSemitones = map[Quality]int{MajorTriad: 4, MinorTriad: 3, DiminishedTriad: 3}
var fifthSemitones = map[Quality]int{MajorTriad: 7, MinorTriad: 7, DiminishedTriad: 6}

// majorDegreeQualities and minorDegreeQualities give the quality of the
// diatonic triad built on each scale degree (0 = I/i .. 6 = vii/VII) for a
// strictly diatonic major or natural-minor key.
var majorDegreeQualities = [7]Quality{
	MajorTriad, MinorTriad, MinorTriad, MajorTriad, MajorTriad, MinorTriad, DiminishedTriad,
}
var minorDegreeQualities = [7]Quality{
	MinorTriad, DiminishedTriad, MajorTriad, MinorTriad, MinorTriad, MajorTriad, MajorTriad,
}

// Chord is a triad built on a scale degree of a key.
type Chord struct {
	RootPC  int
	Quality Quality
	Degree  int // 0..6, I/i..vii/VII
}

// DiatonicTriad builds the triad on scale degree d (0..6) of key k.
func DiatonicTriad(k Key, d int) Chord {
	qualities := majorDegreeQualities
	if k.Mode == "minor" {
		qualities = minorDegreeQualities
	}
	d = ((d % 7) + 7) % 7
	return Chord{RootPC: k.Degrees[d], Quality: qualities[d], Degree: d}
}

// DiatonicTriads returns all seven diatonic triads of key k, in degree
// order.
func DiatonicTriads(k Key) []Chord {
	out := make([]Chord, 7)
	for d := 0; d < 7; d++ {
		out[d] = DiatonicTriad(k, d)
	}
	return out
}

// Tones returns the chord's root, fifth and third as pitch classes, in
// that order — the order the voice-leading solver's bass-preference search
// walks (prefer root, then fifth, then third).
func (c Chord) Tones() [3]int {
	return [3]int{
		c.RootPC,
		(c.RootPC + fifthSemitones[c.Quality]) % 12,
		(c.RootPC + thirdSemitones[c.Quality]) % 12,
	}
}

// HasTone reports whether pitch class pc is a chord tone of c.
func (c Chord) HasTone(pc int) bool {
	t := c.Tones()
	return pc == t[0] || pc == t[1] || pc == t[2]
}

// transitionWeights gives the representative functional-progression
// weights: rows are the previous degree, columns the next degree. Unlisted
// pairs default to 1 (see DefaultTransitionWeight).
var transitionWeights = map[[2]int]int{
	{0, 3}: 3, // I -> IV
	{0, 4}: 3, // I -> V
	{0, 5}: 2, // I -> vi
	{3, 4}: 3, // IV -> V
	{4, 0}: 4, // V -> I
	{4, 5}: 2, // V -> vi
	{1, 4}: 3, // ii -> V
	{5, 1}: 2, // vi -> ii
	{6, 0}: 3, // vii° -> I
}

// DefaultTransitionWeight is the weight assigned to any (previous, next)
// degree pair not named explicitly above.
const DefaultTransitionWeight = 1

// TransitionWeight returns the functional weight of moving from scale
// degree `from` to scale degree `to`.
func TransitionWeight(from, to int) int {
	if w, ok := transitionWeights[[2]int{from, to}]; ok {
		return w
	}
	return DefaultTransitionWeight
}

// InitialWeight returns the weight of choosing degree d as the first
// chord of a progression (no previous chord): I is weighted 5, V is
// weighted 2, every other degree takes the default weight.
func InitialWeight(d int) int {
	switch d {
	case 0:
		return 5
	case 4:
		return 2
	default:
		return DefaultTransitionWeight
	}
}
