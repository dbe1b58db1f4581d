package harmony

import (
	"testing"

	"harmonizer/internal/pitch"
	"harmonizer/internal/score"
	"harmonizer/internal/theory"
)

func TestScoreEmptyIsZeroValue(t *testing.T) {
	q := Score(nil, nil, DefaultVoiceRanges)
	if q != (Quality{}) {
		t.Errorf("expected zero-value Quality for an empty run, got %+v", q)
	}
}

func TestScoreRangeViolationsLowerRangeScore(t *testing.T) {
	key := theory.NewKey(0, score.Major)
	chord := theory.DiatonicTriad(key, 0)
	goodSon := Sonority{S: 72, A: 67, T: 64, B: 60}
	badSon := Sonority{S: 200, A: 200, T: 200, B: 200}

	goodQ := Score([]Sonority{goodSon, goodSon}, []theory.Chord{chord, chord}, DefaultVoiceRanges)
	badQ := Score([]Sonority{badSon, badSon}, []theory.Chord{chord, chord}, DefaultVoiceRanges)

	if badQ.Range >= goodQ.Range {
		t.Errorf("expected out-of-range sonorities to score lower on Range: good=%v bad=%v", goodQ.Range, badQ.Range)
	}
}

func TestHarmonizeDeterministic(t *testing.T) {
	key := theory.NewKey(0, score.Major)
	slots := []pitch.Pitch{
		pitch.FromStep("C", 0, 5),
		pitch.FromStep("D", 0, 5),
		pitch.FromStep("E", 0, 5),
		pitch.FromStep("F", 0, 5),
		pitch.FromStep("G", 0, 5),
	}
	r1 := Harmonize(key, slots, 12345, DefaultVoiceRanges)
	r2 := Harmonize(key, slots, 12345, DefaultVoiceRanges)

	if len(r1.Sonorities) != len(r2.Sonorities) {
		t.Fatalf("mismatched sonority counts: %d vs %d", len(r1.Sonorities), len(r2.Sonorities))
	}
	for i := range r1.Sonorities {
		if r1.Sonorities[i] != r2.Sonorities[i] {
			t.Fatalf("same seed produced different sonorities at slot %d: %+v vs %+v", i, r1.Sonorities[i], r2.Sonorities[i])
		}
	}
	if r1.Quality != r2.Quality {
		t.Errorf("same seed produced different quality scores: %+v vs %+v", r1.Quality, r2.Quality)
	}
}

func TestHarmonizeProducesOrderedSonorities(t *testing.T) {
	key := theory.NewKey(-3, score.Minor)
	slots := []pitch.Pitch{
		pitch.FromStep("C", 0, 4),
		pitch.FromStep("B", -1, 4),
		pitch.FromStep("A", -1, 4),
		pitch.Rest,
		pitch.FromStep("G", 0, 4),
	}
	result := Harmonize(key, slots, 999, DefaultVoiceRanges)
	for i, s := range result.Sonorities {
		if !s.Ordered() {
			t.Errorf("slot %d sonority %+v violates S>=A>=T>=B", i, s)
		}
	}
}
