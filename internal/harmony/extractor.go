package harmony

import (
	"harmonizer/internal/catalog"
	"harmonizer/internal/pitch"
	"harmonizer/internal/score"
)

// voicePermutation is the fixed cycle the part extractor assigns to
// instruments beyond the melody itself: the first non-melody instrument
// gets Alto, the second Bass, the third Tenor, and a fourth wraps back to
// Alto.
var voicePermutation = []func(Sonority) pitch.Pitch{
	func(s Sonority) pitch.Pitch { return s.A },
	func(s Sonority) pitch.Pitch { return s.B },
	func(s Sonority) pitch.Pitch { return s.T },
}

// maxOctaveShiftIterations bounds the instrument-range displacement loop;
// it is passed to pitch.Clamp as its iteration cap.
const maxOctaveShiftIterations = 8

// Part is one instrument's extracted line: the written pitch events (what
// the instrument reads) alongside the sounding pitch events (concert
// pitch), plus any warning raised while fitting the part to the
// instrument's range.
type Part struct {
	Instrument catalog.Instrument
	Sounding   score.MelodicLine
	Written    score.MelodicLine
	Warnings   []score.Warning
}

// ExtractMelodyPart returns a part for inst that carries the melody line
// itself: each pitch is octave-clamped into inst's range and then
// transposed to written pitch, exactly as transposePart does for harmony
// lines.
func ExtractMelodyPart(inst catalog.Instrument, melody score.MelodicLine) Part {
	return transposePart(inst, melody)
}

// ExtractHarmonyPart returns the part for a non-melody instrument.
// voiceIdx is that instrument's position among the non-melody instruments
// (0-based), selecting Alto/Bass/Tenor/Alto per the fixed three-way cycle.
// The chosen voice of each slot's sonority is re-expanded
// back to the melody's original note onsets and durations so the harmony
// part shares the melody's rhythm.
func ExtractHarmonyPart(inst catalog.Instrument, melody score.MelodicLine, sons []Sonority, divisions, voiceIdx int) Part {
	voiceFn := voicePermutation[voiceIdx%3]
	d := divisionsOrOne(divisions)

	line := make(score.MelodicLine, len(melody))
	for i, n := range melody {
		slot := int(n.Onset) / d
		if slot >= len(sons) {
			slot = len(sons) - 1
		}
		if slot < 0 {
			slot = 0
		}
		p := pitch.Rest
		if len(sons) > 0 {
			p = voiceFn(sons[slot])
		}
		line[i] = score.NoteEvent{Pitch: p, Duration: n.Duration, Onset: n.Onset}
	}

	return transposePart(inst, line)
}

func divisionsOrOne(d int) int {
	if d < 1 {
		return 1
	}
	return d
}

// transposePart clamps the sounding pitch into the instrument's playable
// range by whole octaves, attaching a RangeWarning if the clamp could not
// land the pitch in range within the iteration cap, then adds the
// instrument's written-vs-sounding transposition to the clamped pitch to
// yield the written pitch used for serialization.
func transposePart(inst catalog.Instrument, sounding score.MelodicLine) Part {
	clampedSounding := make(score.MelodicLine, len(sounding))
	written := make(score.MelodicLine, len(sounding))
	var warnings []score.Warning

	for i, n := range sounding {
		if n.IsRest() {
			clampedSounding[i] = n
			written[i] = n
			continue
		}
		clamped, hitCap := n.Pitch.Clamp(inst.MinMIDI, inst.MaxMIDI, maxOctaveShiftIterations)
		if hitCap {
			warnings = append(warnings, score.Warning{
				Kind:   score.RangeWarning,
				Detail: "part exceeds " + inst.Name + "'s range after octave displacement",
				Slot:   i,
			})
		}
		clampedSounding[i] = score.NoteEvent{Pitch: clamped, Duration: n.Duration, Onset: n.Onset}
		written[i] = score.NoteEvent{Pitch: clamped + pitch.Pitch(inst.Transposition), Duration: n.Duration, Onset: n.Onset}
	}

	return Part{Instrument: inst, Sounding: clampedSounding, Written: written, Warnings: warnings}
}
