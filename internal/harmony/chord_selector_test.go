package harmony

import (
	"testing"

	"harmonizer/internal/pitch"
	"harmonizer/internal/prng"
	"harmonizer/internal/score"
	"harmonizer/internal/theory"
)

func TestQuantizeToSlotsBasic(t *testing.T) {
	line := score.MelodicLine{
		{Pitch: pitch.FromStep("C", 0, 4), Duration: 4, Onset: 0},
		{Pitch: pitch.FromStep("D", 0, 4), Duration: 4, Onset: 4},
	}
	slots := QuantizeToSlots(line, 4)
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[0] != pitch.FromStep("C", 0, 4) || slots[1] != pitch.FromStep("D", 0, 4) {
		t.Errorf("unexpected slot pitches: %v", slots)
	}
}

func TestQuantizeToSlotsRest(t *testing.T) {
	line := score.MelodicLine{
		{Pitch: pitch.Rest, Duration: 4, Onset: 0},
	}
	slots := QuantizeToSlots(line, 4)
	if len(slots) != 1 || !slots[0].IsRest() {
		t.Errorf("expected one rest slot, got %v", slots)
	}
}

func TestCandidateChordsDiatonic(t *testing.T) {
	key := theory.NewKey(0, score.Major) // C major
	cands := candidateChords(key, 0)     // pitch class C
	if len(cands) == 0 {
		t.Fatal("expected at least one candidate chord containing C")
	}
	for _, c := range cands {
		if !c.HasTone(0) {
			t.Errorf("candidate %+v does not contain pitch class 0", c)
		}
	}
}

func TestSelectChordsDeterministic(t *testing.T) {
	key := theory.NewKey(0, score.Major)
	slots := []pitch.Pitch{
		pitch.FromStep("C", 0, 4),
		pitch.FromStep("D", 0, 4),
		pitch.FromStep("E", 0, 4),
	}
	a := SelectChords(key, slots, prng.New(42), false)
	b := SelectChords(key, slots, prng.New(42), false)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different chords at slot %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSelectChordsRestRepeatsPrevious(t *testing.T) {
	key := theory.NewKey(0, score.Major)
	slots := []pitch.Pitch{pitch.FromStep("C", 0, 4), pitch.Rest, pitch.Rest}
	chords := SelectChords(key, slots, prng.New(1), false)
	if chords[1].Degree != chords[0].Degree || chords[2].Degree != chords[0].Degree {
		t.Errorf("expected rest slots to repeat the previous chord, got %+v", chords)
	}
}
