// Package harmony implements the melody-driven chord selector, the
// voice-leading solver, the quality scorer and its one-shot refinement
// pass, and the per-instrument part extractor.
//
// Weighted, PRNG-tie-broken selection among competing candidates draws its
// randomness from this module's own deterministic, explicitly-threaded
// generator (internal/prng) rather than an ambient global source, so that
// two runs over identical input produce byte-identical output.
package harmony

import "harmonizer/internal/pitch"

// Sonority is a four-voice realization of one chord: Soprano, Alto, Tenor,
// Bass MIDI pitches. A rest slot is represented by all four voices holding
// pitch.Rest.
type Sonority struct {
	S, A, T, B pitch.Pitch
}

// IsRest reports whether the sonority represents a silent slot.
func (s Sonority) IsRest() bool {
	return s.S.IsRest()
}

// Ordered reports whether the sonority respects S >= A >= T >= B. Rest
// sonorities vacuously satisfy it.
func (s Sonority) Ordered() bool {
	if s.IsRest() {
		return true
	}
	return s.S >= s.A && s.A >= s.T && s.T >= s.B
}

// VoiceRange is an inclusive MIDI pitch range for one voice.
type VoiceRange struct {
	Lo, Hi pitch.Pitch
}

// VoiceRanges is the reference SATB range set.
type VoiceRanges struct {
	S, A, T, B VoiceRange
}

// DefaultVoiceRanges are the reference ranges each voice is expected to
// stay within.
var DefaultVoiceRanges = VoiceRanges{
	S: VoiceRange{60, 81},
	A: VoiceRange{55, 74},
	T: VoiceRange{48, 67},
	B: VoiceRange{36, 60},
}

// InRange reports whether each voice of s lies within its reference range.
// Rest voices are always considered in range.
func (s Sonority) InRange(r VoiceRanges) (sOK, aOK, tOK, bOK bool) {
	sOK = s.S.IsRest() || s.S.InRange(r.S.Lo, r.S.Hi)
	aOK = s.A.IsRest() || s.A.InRange(r.A.Lo, r.A.Hi)
	tOK = s.T.IsRest() || s.T.InRange(r.T.Lo, r.T.Hi)
	bOK = s.B.IsRest() || s.B.InRange(r.B.Lo, r.B.Hi)
	return
}

// RangeViolations counts how many of s's four voices fall outside r.
func (s Sonority) RangeViolations(r VoiceRanges) int {
	sOK, aOK, tOK, bOK := s.InRange(r)
	n := 0
	for _, ok := range []bool{sOK, aOK, tOK, bOK} {
		if !ok {
			n++
		}
	}
	return n
}
