package scoreio

import (
	"strings"
	"testing"

	"harmonizer/internal/pitch"
	"harmonizer/internal/score"
)

const monophonicC4 = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
  <part-list>
    <score-part id="P1"><part-name>Melody</part-name></score-part>
  </part-list>
  <part id="P1">
    <measure number="1">
      <attributes>
        <divisions>1</divisions>
        <key><fifths>0</fifths><mode>major</mode></key>
        <time><beats>4</beats><beat-type>4</beat-type></time>
      </attributes>
      <note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note>
    </measure>
  </part>
</score-partwise>`

func TestReadMonophonic(t *testing.T) {
	ps, err := Read([]byte(monophonicC4))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ps.Polyphonic {
		t.Fatalf("expected monophonic input")
	}
	if len(ps.Melody) != 1 {
		t.Fatalf("expected 1 note, got %d", len(ps.Melody))
	}
	if ps.Melody[0].Pitch != pitch.FromStep("C", 0, 4) {
		t.Errorf("expected C4, got %v", ps.Melody[0].Pitch)
	}
	if ps.Header.Divisions != 1 || ps.Header.Beats != 4 || ps.Header.BeatType != 4 {
		t.Errorf("unexpected header %+v", ps.Header)
	}
}

func TestReadTimewiseRejected(t *testing.T) {
	doc := `<?xml version="1.0"?><score-timewise version="3.1"></score-timewise>`
	_, err := Read([]byte(doc))
	se, ok := err.(*score.Error)
	if !ok || se.Kind != score.UnsupportedFormat {
		t.Fatalf("expected UnsupportedFormat, got %v", err)
	}
}

func TestReadInvalidRoot(t *testing.T) {
	doc := `<?xml version="1.0"?><not-a-score/>`
	_, err := Read([]byte(doc))
	se, ok := err.(*score.Error)
	if !ok || se.Kind != score.InvalidFormat {
		t.Fatalf("expected InvalidFormat, got %v", err)
	}
}

func TestReadNoParts(t *testing.T) {
	doc := `<?xml version="1.0"?><score-partwise version="3.1"><part-list></part-list></score-partwise>`
	_, err := Read([]byte(doc))
	se, ok := err.(*score.Error)
	if !ok || se.Kind != score.NoParts {
		t.Fatalf("expected NoParts, got %v", err)
	}
}

func TestReadEmptyMelody(t *testing.T) {
	doc := strings.Replace(monophonicC4,
		`<note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note>`,
		`<note><rest/><duration>1</duration></note>`, 1)
	_, err := Read([]byte(doc))
	se, ok := err.(*score.Error)
	if !ok || se.Kind != score.EmptyMelody {
		t.Fatalf("expected EmptyMelody, got %v", err)
	}
}

func TestReadMissingAttributesDefault(t *testing.T) {
	doc := `<?xml version="1.0"?>
<score-partwise version="3.1">
  <part-list><score-part id="P1"><part-name>M</part-name></score-part></part-list>
  <part id="P1">
    <measure number="1">
      <note><pitch><step>C</step><octave>4</octave></pitch><duration>4</duration></note>
    </measure>
  </part>
</score-partwise>`
	ps, err := Read([]byte(doc))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ps.Header.Divisions != 1 || ps.Header.Fifths != 0 || ps.Header.Mode != score.Major {
		t.Errorf("expected defaulted header, got %+v", ps.Header)
	}
	if ps.Header.Beats != 4 || ps.Header.BeatType != 4 {
		t.Errorf("expected default 4/4 time, got %+v", ps.Header)
	}
}

func TestReadPolyphonicChordFlag(t *testing.T) {
	doc := `<?xml version="1.0"?>
<score-partwise version="3.1">
  <part-list><score-part id="P1"><part-name>M</part-name></score-part></part-list>
  <part id="P1">
    <measure number="1">
      <attributes><divisions>1</divisions><key><fifths>0</fifths></key></attributes>
      <note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note>
      <note><chord/><pitch><step>E</step><octave>3</octave></pitch><duration>1</duration></note>
    </measure>
  </part>
</score-partwise>`
	ps, err := Read([]byte(doc))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !ps.Polyphonic {
		t.Fatalf("expected polyphonic detection from <chord/>")
	}
	if len(ps.AllLines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(ps.AllLines))
	}
	if ps.AllLines[0][0].Pitch != pitch.FromStep("C", 0, 4) {
		t.Errorf("expected top line to be C4 (descending-pitch assignment)")
	}
	if ps.AllLines[1][0].Pitch != pitch.FromStep("E", 0, 3) {
		t.Errorf("expected second line to be E3")
	}
}

func TestReadInputTooLarge(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0"?><score-partwise version="3.1">`)
	sb.WriteString(`<part-list><score-part id="P1"><part-name>M</part-name></score-part></part-list>`)
	sb.WriteString(`<part id="P1"><measure number="1">`)
	sb.WriteString(`<attributes><divisions>1</divisions></attributes>`)
	for i := 0; i < MaxNoteEvents+1; i++ {
		sb.WriteString(`<note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note>`)
	}
	sb.WriteString(`</measure></part></score-partwise>`)

	_, err := Read([]byte(sb.String()))
	se, ok := err.(*score.Error)
	if !ok || se.Kind != score.InputTooLarge {
		t.Fatalf("expected InputTooLarge, got %v", err)
	}
}
