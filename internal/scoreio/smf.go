package scoreio

import (
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"harmonizer/internal/score"
)

// BuildDebugSMF renders a melodic line into an in-memory Standard MIDI File
// structure, reusing gitlab.com/gomidi/midi/v2's tick and note-event
// vocabulary (smf.New, a MetricTicks time format matching ticks-per-quarter,
// and paired NoteOn/NoteOff messages at delta-tick offsets).
//
// Nothing in this package ever writes the result to disk or returns it from
// a public harmonization call; MIDI file export is out of scope. This
// exists purely as a typed cross-check that the engine's Ticks/divisions
// arithmetic agrees with the same tick vocabulary a MIDI sequencer would
// use, exercised by scoreio's tests.
func BuildDebugSMF(hdr score.Header, line score.MelodicLine) *smf.SMF {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(uint16(hdr.Divisions))

	var track smf.Track
	track.Add(0, midi.ProgramChange(0, 0))

	var prevTick uint32
	for _, n := range line {
		if n.IsRest() {
			continue
		}
		onsetTick := uint32(n.Onset)
		delta := onsetTick - prevTick
		track.Add(delta, midi.NoteOn(0, uint8(n.Pitch), 96))
		track.Add(uint32(n.Duration), midi.NoteOff(0, uint8(n.Pitch)))
		prevTick = onsetTick + uint32(n.Duration)
	}
	track.Close(0)
	s.Add(track)
	return s
}
