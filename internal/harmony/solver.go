package harmony

import (
	"harmonizer/internal/pitch"
	"harmonizer/internal/prng"
	"harmonizer/internal/score"
	"harmonizer/internal/theory"
)

// SolveResult is one slot's realized sonority plus any warnings the solver
// attached while producing it.
type SolveResult struct {
	Sonority Sonority
	Warnings []score.Warning
}

// candidate pairs a fully-resolved sonority with its classical
// voice-leading score (lower is better).
type candidate struct {
	son   Sonority
	score int
}

// SolveSlot realizes chord as a four-voice sonority with the soprano fixed
// to melodyPitch, against the optional previous sonority for parallel-
// motion and common-tone scoring. slotIdx is only used to label a
// RangeWarning if the solver must fall back.
func SolveSlot(chord theory.Chord, melodyPitch pitch.Pitch, prev *Sonority, ranges VoiceRanges, rng *prng.PRNG, slotIdx int) SolveResult {
	if melodyPitch.IsRest() {
		return SolveResult{Sonority: Sonority{pitch.Rest, pitch.Rest, pitch.Rest, pitch.Rest}}
	}

	tones := chord.Tones() // [root, fifth, third], bass-preference order
	var candidates []candidate

	for _, bassPC := range tones {
		for _, bassP := range pitch.PitchesWithClassInRange(bassPC, ranges.B.Lo, ranges.B.Hi) {
			for _, altoPC := range tones {
				for _, altoP := range pitch.PitchesWithClassInRange(altoPC, ranges.A.Lo, ranges.A.Hi) {
					for _, tenorPC := range tones {
						for _, tenorP := range pitch.PitchesWithClassInRange(tenorPC, ranges.T.Lo, ranges.T.Hi) {
							son := Sonority{S: melodyPitch, A: altoP, T: tenorP, B: bassP}
							if !son.Ordered() {
								continue
							}
							if !doublingAdmissible(son, chord) {
								continue
							}
							candidates = append(candidates, candidate{son: son, score: scoreCandidate(son, prev, chord, ranges)})
						}
					}
				}
			}
		}
	}

	if len(candidates) == 0 {
		son, warn := fallbackSonority(chord, melodyPitch, ranges, slotIdx)
		return SolveResult{Sonority: son, Warnings: []score.Warning{warn}}
	}

	best := candidates[0].score
	for _, c := range candidates[1:] {
		if c.score < best {
			best = c.score
		}
	}
	var tied []candidate
	for _, c := range candidates {
		if c.score == best {
			tied = append(tied, c)
		}
	}
	chosen := tied[0]
	if len(tied) > 1 {
		chosen = tied[rng.Intn(len(tied))]
	}
	return SolveResult{Sonority: chosen.son}
}

// doublingAdmissible enforces the doubling-priority rule: exactly one chord
// tone may be doubled (appear in more than one voice), and it must be the
// highest-priority tone (root > fifth > third) that is present in the
// sonority at all.
func doublingAdmissible(son Sonority, chord theory.Chord) bool {
	tones := chord.Tones() // root, fifth, third
	counts := map[int]int{}
	for _, v := range []pitch.Pitch{son.S, son.A, son.T, son.B} {
		counts[v.PitchClass()]++
	}

	doubledPC, doubledCount, numDoubled := -1, 0, 0
	for _, pc := range tones {
		if counts[pc] >= 2 {
			numDoubled++
			if counts[pc] > doubledCount {
				doubledCount = counts[pc]
				doubledPC = pc
			}
		}
	}
	if numDoubled != 1 {
		return false
	}
	for _, pc := range tones {
		if counts[pc] >= 1 {
			return pc == doubledPC
		}
	}
	return false
}

// scoreCandidate implements the voice-leading scoring rubric; lower is
// better.
func scoreCandidate(son Sonority, prev *Sonority, chord theory.Chord, ranges VoiceRanges) int {
	total := 0

	if prev != nil && !prev.IsRest() {
		total += parallelMotionPenalty(*prev, son)

		for _, pair := range [][2]pitch.Pitch{{prev.A, son.A}, {prev.T, son.T}, {prev.B, son.B}} {
			d := absInt(int(pair[1]) - int(pair[0]))
			total += d
			if d > 7 {
				total += 3
			}
		}

		for _, pair := range [][2]pitch.Pitch{{prev.S, son.S}, {prev.A, son.A}, {prev.T, son.T}, {prev.B, son.B}} {
			if pair[0] == pair[1] {
				total -= 2
			}
		}
	}

	tones := chord.Tones()
	bassPC := son.B.PitchClass()
	switch bassPC {
	case tones[0]: // root position
	case tones[2]: // third in the bass: first inversion
		total += 6
	case tones[1]: // fifth in the bass: second inversion
		total += 10
	}

	if son.S < son.A {
		total += 4
	}
	if son.A < son.T {
		total += 4
	}
	if son.T < son.B {
		total += 4
	}

	total += 20 * son.RangeViolations(ranges)

	return total
}

// parallelMotionPenalty adds 10 for each of the six voice pairs that
// preserves a perfect fifth or perfect octave while both voices move in the
// same direction between prev and son.
func parallelMotionPenalty(prev, son Sonority) int {
	pairs := [][4]pitch.Pitch{
		{prev.S, prev.A, son.S, son.A},
		{prev.S, prev.T, son.S, son.T},
		{prev.S, prev.B, son.S, son.B},
		{prev.A, prev.T, son.A, son.T},
		{prev.A, prev.B, son.A, son.B},
		{prev.T, prev.B, son.T, son.B},
	}
	penalty := 0
	for _, p := range pairs {
		prevInterval := absInt(int(p[0]) - int(p[1]))
		curInterval := absInt(int(p[2]) - int(p[3]))
		isPerfect := func(iv int) (fifth, octave bool) {
			return iv%12 == 7, iv%12 == 0
		}
		pf, po := isPerfect(prevInterval)
		cf, co := isPerfect(curInterval)
		sameClass := (pf && cf) || (po && co)
		if !sameClass {
			continue
		}
		d1 := int(p[2]) - int(p[0])
		d2 := int(p[3]) - int(p[1])
		if d1 != 0 && d2 != 0 && sameSign(d1, d2) {
			penalty += 10
		}
	}
	return penalty
}

func sameSign(a, b int) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// fallbackSonority implements the defensive voicing for the pathological
// case where no admissible candidate exists: root in the bass at the
// lowest available octave, fifth in the tenor, third in the alto, soprano
// left at the melody pitch. It always attaches a RangeWarning.
func fallbackSonority(chord theory.Chord, melodyPitch pitch.Pitch, ranges VoiceRanges, slotIdx int) (Sonority, score.Warning) {
	tones := chord.Tones()

	bassOpts := pitch.PitchesWithClassInRange(tones[0], ranges.B.Lo, ranges.B.Hi)
	bass := firstOr(bassOpts, ranges.B.Lo)

	tenorOpts := pitch.PitchesWithClassInRange(tones[1], ranges.T.Lo, ranges.T.Hi)
	tenor := nearestAtLeast(tenorOpts, bass, ranges.T.Lo)

	altoOpts := pitch.PitchesWithClassInRange(tones[2], ranges.A.Lo, ranges.A.Hi)
	alto := nearestAtLeast(altoOpts, tenor, ranges.A.Lo)
	if alto > melodyPitch {
		alto = melodyPitch
	}

	son := Sonority{S: melodyPitch, A: alto, T: tenor, B: bass}
	return son, score.Warning{Kind: score.RangeWarning, Detail: "solver fallback voicing used", Slot: slotIdx}
}

func firstOr(opts []pitch.Pitch, fallback pitch.Pitch) pitch.Pitch {
	if len(opts) > 0 {
		return opts[0]
	}
	return fallback
}

func nearestAtLeast(opts []pitch.Pitch, floor, fallback pitch.Pitch) pitch.Pitch {
	for _, o := range opts {
		if o >= floor {
			return o
		}
	}
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return fallback
}
