package harmony

import (
	"harmonizer/internal/pitch"
	"harmonizer/internal/prng"
	"harmonizer/internal/score"
	"harmonizer/internal/theory"
)

// motionWeight scales the mean semitone movement of the inner voices into
// the motion sub-score; DESIGN.md records the reasoning behind the choice
// of 3.
const motionWeight = 3

// Quality is the four-part sub-score breakdown and overall rating of one
// harmonization run.
type Quality struct {
	Motion      float64
	CommonTone  float64
	Progression float64
	Range       float64
	Overall     float64
}

// Result is one full run of the pipeline: the chosen chord per slot, the
// realized sonority per slot, and any warnings the solver raised.
type Result struct {
	Chords    []theory.Chord
	Sonorities []Sonority
	Warnings  []score.Warning
	Quality   Quality
}

// Run solves every slot against key using the chords SelectChords already
// picked, threading the previous sonority into each slot's solver call so
// voice-leading scoring sees real motion.
func Run(key theory.Key, slots []pitch.Pitch, chords []theory.Chord, ranges VoiceRanges, rng *prng.PRNG) ([]Sonority, []score.Warning) {
	sons := make([]Sonority, len(slots))
	var warnings []score.Warning
	var prev *Sonority
	for i, p := range slots {
		res := SolveSlot(chords[i], p, prev, ranges, rng, i)
		sons[i] = res.Sonority
		warnings = append(warnings, res.Warnings...)
		if !res.Sonority.IsRest() {
			s := res.Sonority
			prev = &s
		} else {
			prev = nil
		}
	}
	return sons, warnings
}

// Score computes the quality sub-scores and overall rating for a completed
// run.
func Score(sons []Sonority, chords []theory.Chord, ranges VoiceRanges) Quality {
	n := len(sons)
	if n == 0 {
		return Quality{}
	}

	var motionSum float64
	var commonToneHits, transitions int
	var progressionHits int
	var rangeViolations int

	var prev *Sonority
	for i, s := range sons {
		if !s.IsRest() {
			rangeViolations += s.RangeViolations(ranges)
		}

		if prev != nil && !prev.IsRest() && !s.IsRest() {
			motionSum += float64(absInt(int(s.A)-int(prev.A)) + absInt(int(s.T)-int(prev.T)) + absInt(int(s.B)-int(prev.B)))
			transitions++

			commonTone := false
			for _, pair := range [][2]pitch.Pitch{{prev.S, s.S}, {prev.A, s.A}, {prev.T, s.T}, {prev.B, s.B}} {
				if pair[0] == pair[1] {
					commonTone = true
					break
				}
			}
			if commonTone {
				commonToneHits++
			}

			if theory.TransitionWeight(chords[i-1].Degree, chords[i].Degree) >= 2 {
				progressionHits++
			}
		}

		if !s.IsRest() {
			ps := s
			prev = &ps
		} else {
			prev = nil
		}
	}

	motionScore := 100.0
	if transitions > 0 {
		mean := motionSum / float64(transitions)
		motionScore = clampScore(100 - mean*motionWeight)
	}

	commonToneScore := 100.0
	if transitions > 0 {
		commonToneScore = clampScore(100 * float64(commonToneHits) / float64(transitions))
	}

	progressionScore := 100.0
	if transitions > 0 {
		progressionScore = clampScore(100 * float64(progressionHits) / float64(transitions))
	}

	rangeScore := clampScore(100 - 10*float64(rangeViolations))

	overall := 0.3*motionScore + 0.25*commonToneScore + 0.25*progressionScore + 0.2*rangeScore

	return Quality{
		Motion:      motionScore,
		CommonTone:  commonToneScore,
		Progression: progressionScore,
		Range:       rangeScore,
		Overall:     clampScore(overall),
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// refinementThreshold is the overall quality score below which Harmonize
// triggers its one allowed refinement pass.
const refinementThreshold = 70.0

// Harmonize runs the chord selector and solver once. If the resulting
// overall quality is below refinementThreshold, it performs the one
// allowed refinement pass — reseed the PRNG, re-select chords preferring
// each slot's second-best weighted candidate, re-solve — and keeps
// whichever run scores higher overall.
func Harmonize(key theory.Key, slots []pitch.Pitch, seed uint64, ranges VoiceRanges) Result {
	rng1 := prng.New(seed)
	chords1 := SelectChords(key, slots, rng1.Split(), false)
	sons1, warn1 := Run(key, slots, chords1, ranges, rng1)
	q1 := Score(sons1, chords1, ranges)

	if q1.Overall >= refinementThreshold {
		return Result{Chords: chords1, Sonorities: sons1, Warnings: warn1, Quality: q1}
	}

	rng2 := prng.New(prng.RefinementSeed(seed))
	chords2 := SelectChords(key, slots, rng2.Split(), true)
	sons2, warn2 := Run(key, slots, chords2, ranges, rng2)
	q2 := Score(sons2, chords2, ranges)

	if q2.Overall > q1.Overall {
		return Result{Chords: chords2, Sonorities: sons2, Warnings: warn2, Quality: q2}
	}
	return Result{Chords: chords1, Sonorities: sons1, Warnings: warn1, Quality: q1}
}
