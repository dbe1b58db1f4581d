package harmony

import (
	"harmonizer/internal/pitch"
	"harmonizer/internal/prng"
	"harmonizer/internal/score"
	"harmonizer/internal/theory"
)

// QuantizeToSlots reduces a melodic line to one pitch per beat slot of
// length `divisions` ticks: each slot takes the pitch sounding at its
// onset tick, or pitch.Rest if the onset falls within a rest.
func QuantizeToSlots(line score.MelodicLine, divisions int) []pitch.Pitch {
	if divisions < 1 {
		divisions = 1
	}
	total := int(line.TotalTicks())
	if total == 0 {
		return nil
	}
	numSlots := (total + divisions - 1) / divisions

	slots := make([]pitch.Pitch, numSlots)
	idx := 0
	for s := 0; s < numSlots; s++ {
		t := score.Ticks(s * divisions)
		for idx < len(line)-1 && line[idx+1].Onset <= t {
			idx++
		}
		n := line[idx]
		if t >= n.Onset && t < n.Onset+n.Duration {
			slots[s] = n.Pitch
		} else {
			slots[s] = pitch.Rest
		}
	}
	return slots
}

// candidateChords returns the diatonic triads of key (and, for a chromatic
// melody pitch, the parallel-mode triads too — modal-mixture borrowing)
// whose chord tones include pitch class pc.
func candidateChords(key theory.Key, pc int) []theory.Chord {
	var out []theory.Chord
	for _, c := range theory.DiatonicTriads(key) {
		if c.HasTone(pc) {
			out = append(out, c)
		}
	}
	if len(out) > 0 {
		return out
	}
	// Chromatic melody pitch: borrow from the parallel-mode diatonic set.
	for _, c := range theory.DiatonicTriads(key.Parallel()) {
		if c.HasTone(pc) {
			out = append(out, c)
		}
	}
	if len(out) > 0 {
		return out
	}
	// Pathological: pc isn't a tone of any diatonic or parallel-mode triad.
	// Fall back to every diatonic triad so selection still has something
	// to weigh.
	return theory.DiatonicTriads(key)
}

// SelectChords picks one chord per beat slot, driven by the sounding
// melody pitch and a weighted functional-progression table. When
// secondBest is true (the one refinement pass), each slot takes the
// second-highest-weighted candidate instead of the best one, whenever a
// second distinct weight tier exists.
func SelectChords(key theory.Key, slots []pitch.Pitch, rng *prng.PRNG, secondBest bool) []theory.Chord {
	chords := make([]theory.Chord, len(slots))
	prevDegree := -1
	for i, p := range slots {
		if p.IsRest() {
			if i == 0 {
				chords[i] = theory.DiatonicTriad(key, 0)
			} else {
				chords[i] = chords[i-1]
			}
			prevDegree = chords[i].Degree
			continue
		}

		candidates := candidateChords(key, p.PitchClass())
		weights := make([]int, len(candidates))
		for ci, c := range candidates {
			if prevDegree < 0 {
				weights[ci] = theory.InitialWeight(c.Degree)
			} else {
				weights[ci] = theory.TransitionWeight(prevDegree, c.Degree)
			}
		}

		chosen := argmaxTieBreak(weights, rng)
		if secondBest {
			chosen = secondBestTieBreak(weights, chosen, rng)
		}
		chords[i] = candidates[chosen]
		prevDegree = chords[i].Degree
	}
	return chords
}

// argmaxTieBreak returns the index of the largest weight, breaking ties
// among equally-weighted candidates by consuming the PRNG.
func argmaxTieBreak(weights []int, rng *prng.PRNG) int {
	best := weights[0]
	for _, w := range weights[1:] {
		if w > best {
			best = w
		}
	}
	var tied []int
	for i, w := range weights {
		if w == best {
			tied = append(tied, i)
		}
	}
	if len(tied) == 1 {
		return tied[0]
	}
	return tied[rng.Intn(len(tied))]
}

// secondBestTieBreak returns the index of the highest-weighted candidate
// strictly below bestIdx's weight tier, falling back to bestIdx itself if
// every candidate shares the same weight.
func secondBestTieBreak(weights []int, bestIdx int, rng *prng.PRNG) int {
	bestWeight := weights[bestIdx]
	secondWeight := -1
	for i, w := range weights {
		if i == bestIdx {
			continue
		}
		if w < bestWeight && w > secondWeight {
			secondWeight = w
		}
	}
	if secondWeight < 0 {
		return bestIdx
	}
	var tied []int
	for i, w := range weights {
		if w == secondWeight {
			tied = append(tied, i)
		}
	}
	if len(tied) == 1 {
		return tied[0]
	}
	return tied[rng.Intn(len(tied))]
}
