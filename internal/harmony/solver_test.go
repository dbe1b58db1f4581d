package harmony

import (
	"testing"

	"harmonizer/internal/pitch"
	"harmonizer/internal/prng"
	"harmonizer/internal/theory"
)

func TestSolveSlotRest(t *testing.T) {
	key := theory.NewKey(0, "major")
	chord := theory.DiatonicTriad(key, 0)
	res := SolveSlot(chord, pitch.Rest, nil, DefaultVoiceRanges, prng.New(1), 0)
	if !res.Sonority.IsRest() {
		t.Errorf("expected rest sonority, got %+v", res.Sonority)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("rest slot should not raise warnings, got %+v", res.Warnings)
	}
}

func TestSolveSlotOrdering(t *testing.T) {
	key := theory.NewKey(0, "major")
	chord := theory.DiatonicTriad(key, 0) // I: C major
	melody := pitch.FromStep("C", 0, 5)   // soprano C5
	res := SolveSlot(chord, melody, nil, DefaultVoiceRanges, prng.New(7), 0)

	son := res.Sonority
	if !(son.S >= son.A && son.A >= son.T && son.T >= son.B) {
		t.Fatalf("sonority violates S>=A>=T>=B: %+v", son)
	}
	for _, v := range []pitch.Pitch{son.A, son.T, son.B} {
		if !chord.HasTone(v.PitchClass()) {
			t.Errorf("voice %d is not a chord tone of %+v", v, chord)
		}
	}
}

func TestSolveSlotDoublingAdmissible(t *testing.T) {
	key := theory.NewKey(0, "major")
	chord := theory.DiatonicTriad(key, 0)
	melody := pitch.FromStep("C", 0, 5)
	res := SolveSlot(chord, melody, nil, DefaultVoiceRanges, prng.New(3), 0)
	if !doublingAdmissible(res.Sonority, chord) {
		t.Errorf("solver produced an inadmissible doubling: %+v", res.Sonority)
	}
}

func TestDoublingAdmissibleRejectsDoubleDoubling(t *testing.T) {
	key := theory.NewKey(0, "major")
	chord := theory.DiatonicTriad(key, 0) // C E G
	// Two chord tones doubled (C and E), none tripled: must be rejected.
	son := Sonority{
		S: pitch.FromStep("C", 0, 5),
		A: pitch.FromStep("E", 0, 4),
		T: pitch.FromStep("E", 0, 3),
		B: pitch.FromStep("C", 0, 3),
	}
	if doublingAdmissible(son, chord) {
		t.Error("expected a two-tone doubling to be inadmissible")
	}
}

func TestParallelMotionPenaltyDetectsParallelFifths(t *testing.T) {
	prev := Sonority{
		S: pitch.FromStep("C", 0, 5),
		A: pitch.FromStep("G", 0, 4),
		T: pitch.FromStep("E", 0, 4),
		B: pitch.FromStep("C", 0, 3),
	}
	// Every voice moves up a step, so alto and bass keep their (compound)
	// perfect fifth and soprano and bass keep their double octave.
	cur := Sonority{
		S: pitch.FromStep("D", 0, 5),
		A: pitch.FromStep("A", 0, 4),
		T: pitch.FromStep("F", 0, 4),
		B: pitch.FromStep("D", 0, 3),
	}
	if parallelMotionPenalty(prev, cur) == 0 {
		t.Error("expected a nonzero penalty for parallel fifths")
	}
}

func TestFallbackSonorityUsedWhenRangeImpossible(t *testing.T) {
	key := theory.NewKey(0, "major")
	chord := theory.DiatonicTriad(key, 0)
	impossible := VoiceRanges{
		S: DefaultVoiceRanges.S,
		A: VoiceRange{200, 200},
		T: VoiceRange{200, 200},
		B: VoiceRange{200, 200},
	}
	melody := pitch.FromStep("C", 0, 5)
	res := SolveSlot(chord, melody, nil, impossible, prng.New(5), 2)
	if len(res.Warnings) != 1 || res.Warnings[0].Slot != 2 {
		t.Fatalf("expected a single RangeWarning tagged with slot 2, got %+v", res.Warnings)
	}
}
