package scoreio

import (
	"testing"

	"gitlab.com/gomidi/midi/v2/smf"

	"harmonizer/internal/pitch"
	"harmonizer/internal/score"
)

func TestBuildDebugSMFTimeFormat(t *testing.T) {
	hdr := score.Header{Divisions: 8, Beats: 4, BeatType: 4}
	line := score.MelodicLine{
		{Pitch: pitch.FromStep("C", 0, 4), Duration: 8, Onset: 0},
		{Pitch: pitch.Rest, Duration: 8, Onset: 8},
		{Pitch: pitch.FromStep("D", 0, 4), Duration: 8, Onset: 16},
	}

	s := BuildDebugSMF(hdr, line)
	if s == nil {
		t.Fatal("BuildDebugSMF returned nil")
	}
	if s.TimeFormat != smf.MetricTicks(8) {
		t.Errorf("expected MetricTicks(8), got %v", s.TimeFormat)
	}
}
