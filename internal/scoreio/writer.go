package scoreio

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"harmonizer/internal/catalog"
	"harmonizer/internal/pitch"
	"harmonizer/internal/score"
)

// WrittenPart names one part to emit: its label, clef (nil for the original
// melody / voice lines, which keep the header's implied treble clef), and
// its notes already in written (printed) pitch.
type WrittenPart struct {
	ID       string
	Name     string
	Clef     *catalog.Instrument // nil uses the default treble clef
	Notes    score.MelodicLine
}

// Write serializes parts into a single-measure-per-part partwise document
// using hdr's divisions/key/time and the standard MusicXML 3.1 DOCTYPE.
func Write(hdr score.Header, parts []WrittenPart) ([]byte, error) {
	doc := xmlScorePartwiseOut{
		Version: scoreVersion,
	}
	for _, p := range parts {
		doc.PartList.ScoreParts = append(doc.PartList.ScoreParts, xmlScorePartOut{
			ID:       p.ID,
			PartName: p.Name,
		})
		doc.Parts = append(doc.Parts, buildPart(hdr, p))
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("scoreio: marshal score: %w", err)
	}

	out := []byte(xml.Header)
	out = append(out, partwiseDoctype...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

func buildPart(hdr score.Header, p WrittenPart) xmlPartOut {
	fifths := hdr.Fifths
	sign, line := "G", 2
	if p.Clef != nil {
		sign, line = string(p.Clef.ClefSign), p.Clef.ClefLine
	}

	mode := "major"
	if hdr.Mode == score.Minor {
		mode = "minor"
	}

	attrs := &xmlAttributesOut{
		Divisions: hdr.Divisions,
		Key:       xmlKeyOut{Fifths: fifths, Mode: mode},
		Time:      xmlTimeOut{Beats: strconv.Itoa(hdr.Beats), BeatType: strconv.Itoa(hdr.BeatType)},
		Clef:      xmlClefOut{Sign: sign, Line: line},
	}

	out := xmlPartOut{ID: p.ID}
	measure := xmlMeasureOut{Number: 1, Attributes: attrs}
	for _, n := range p.Notes {
		measure.Notes = append(measure.Notes, noteXML(n, fifths))
	}
	out.Measures = []xmlMeasureOut{measure}
	return out
}

func noteXML(n score.NoteEvent, fifths int) xmlNoteOut {
	if n.IsRest() {
		return xmlNoteOut{Rest: &struct{}{}, Duration: int(n.Duration)}
	}
	sp := pitch.Spell(n.Pitch, fifths)
	var alter *int
	if sp.Alter != 0 {
		a := sp.Alter
		alter = &a
	}
	return xmlNoteOut{
		Pitch:    &xmlPitchOut{Step: sp.Step, Alter: alter, Octave: sp.Octave},
		Duration: int(n.Duration),
	}
}

// --- output-only XML shapes -------------------------------------------------
//
// A distinct (but field-compatible) struct family from the reader's xml*
// types: MarshalIndent always emits every field it's given, whereas the
// reader's types use pointers purely to detect "absent vs. zero" on the way
// in. Keeping the two separate avoids the writer accidentally emitting a
// stray empty <key> or <time> block for parts that have none.

type xmlScorePartwiseOut struct {
	XMLName  xml.Name         `xml:"score-partwise"`
	Version  string           `xml:"version,attr"`
	PartList xmlPartListOut   `xml:"part-list"`
	Parts    []xmlPartOut     `xml:"part"`
}

type xmlPartListOut struct {
	ScoreParts []xmlScorePartOut `xml:"score-part"`
}

type xmlScorePartOut struct {
	ID       string `xml:"id,attr"`
	PartName string `xml:"part-name"`
}

type xmlPartOut struct {
	ID       string          `xml:"id,attr"`
	Measures []xmlMeasureOut `xml:"measure"`
}

type xmlMeasureOut struct {
	Number     int               `xml:"number,attr"`
	Attributes *xmlAttributesOut `xml:"attributes,omitempty"`
	Notes      []xmlNoteOut      `xml:"note"`
}

type xmlAttributesOut struct {
	Divisions int        `xml:"divisions"`
	Key       xmlKeyOut  `xml:"key"`
	Time      xmlTimeOut `xml:"time"`
	Clef      xmlClefOut `xml:"clef"`
}

type xmlKeyOut struct {
	Fifths int    `xml:"fifths"`
	Mode   string `xml:"mode"`
}

type xmlTimeOut struct {
	Beats    string `xml:"beats"`
	BeatType string `xml:"beat-type"`
}

type xmlClefOut struct {
	Sign string `xml:"sign"`
	Line int    `xml:"line"`
}

type xmlNoteOut struct {
	Rest     *struct{}   `xml:"rest,omitempty"`
	Pitch    *xmlPitchOut `xml:"pitch,omitempty"`
	Duration int         `xml:"duration"`
}

type xmlPitchOut struct {
	Step   string `xml:"step"`
	Alter  *int   `xml:"alter,omitempty"`
	Octave int    `xml:"octave"`
}
