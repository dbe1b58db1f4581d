package scoreio

import (
	"strings"
	"testing"

	"harmonizer/internal/pitch"
	"harmonizer/internal/score"
)

func TestWriteRoundTrip(t *testing.T) {
	hdr := score.Header{Divisions: 1, Beats: 4, BeatType: 4, Fifths: 0, Mode: score.Major}
	parts := []WrittenPart{
		{
			ID:   "P1",
			Name: "Melody",
			Notes: score.MelodicLine{
				{Pitch: pitch.FromStep("C", 0, 4), Duration: 1, Onset: 0},
				{Pitch: pitch.Rest, Duration: 1, Onset: 1},
			},
		},
	}

	out, err := Write(hdr, parts)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, `<!DOCTYPE score-partwise PUBLIC`) {
		t.Errorf("missing DOCTYPE: %s", text)
	}
	if !strings.Contains(text, `version="3.1"`) {
		t.Errorf("missing version attribute: %s", text)
	}
	if !strings.Contains(text, "<rest>") {
		t.Errorf("missing rest element: %s", text)
	}

	reparsed, err := Read(out)
	if err != nil {
		t.Fatalf("re-reading emitted score: %v", err)
	}
	if reparsed.Melody[0].Pitch != pitch.FromStep("C", 0, 4) {
		t.Errorf("round trip changed pitch: %+v", reparsed.Melody[0])
	}
}

func TestNoteXMLSharpsVsFlats(t *testing.T) {
	// pitch class 6 (F#/Gb) spelled per key signature sign.
	n := score.NoteEvent{Pitch: pitch.FromStep("F", 1, 4), Duration: 1}
	sharp := noteXML(n, 1)
	if sharp.Pitch.Step != "F" || sharp.Pitch.Alter == nil || *sharp.Pitch.Alter != 1 {
		t.Errorf("expected F# spelling for fifths>=0, got %+v", sharp.Pitch)
	}
	flat := noteXML(n, -1)
	if flat.Pitch.Step != "G" || flat.Pitch.Alter == nil || *flat.Pitch.Alter != -1 {
		t.Errorf("expected Gb spelling for fifths<0, got %+v", flat.Pitch)
	}
}
