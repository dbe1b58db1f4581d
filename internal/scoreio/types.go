// Package scoreio reads and writes the partwise score-exchange XML dialect.
// The tagged-struct shape of the XML document follows the usual
// ScorePartwise/Part/Measure/Note family MusicXML generators use, extended
// here to also support reading an arbitrary input score and to cover key,
// time, clef and accidental fields a write-only generator wouldn't need.
package scoreio

import "encoding/xml"

// xmlScorePartwise is the root element of a partwise score document.
type xmlScorePartwise struct {
	XMLName  xml.Name     `xml:"score-partwise"`
	Version  string       `xml:"version,attr"`
	PartList xmlPartList  `xml:"part-list"`
	Parts    []xmlPart    `xml:"part"`
}

// xmlScoreTimewise names the timewise root element. Nothing decodes into
// it: probeRoot reads only the root name, and timewise input is rejected
// with UnsupportedFormat before any of its content is parsed.
type xmlScoreTimewise struct {
	XMLName xml.Name `xml:"score-timewise"`
}

type xmlPartList struct {
	ScoreParts []xmlScorePart `xml:"score-part"`
}

type xmlScorePart struct {
	ID       string `xml:"id,attr"`
	PartName string `xml:"part-name"`
}

type xmlPart struct {
	ID       string        `xml:"id,attr"`
	Measures []xmlMeasure  `xml:"measure"`
}

type xmlMeasure struct {
	Number     string         `xml:"number,attr"`
	Attributes *xmlAttributes `xml:"attributes"`
	Notes      []xmlNote      `xml:"note"`
}

type xmlAttributes struct {
	Divisions *int     `xml:"divisions"`
	Key       *xmlKey  `xml:"key"`
	Time      *xmlTime `xml:"time"`
	Clef      *xmlClef `xml:"clef"`
}

type xmlKey struct {
	Fifths *int    `xml:"fifths"`
	Mode   *string `xml:"mode"`
}

type xmlTime struct {
	Beats    *string `xml:"beats"`
	BeatType *string `xml:"beat-type"`
}

type xmlClef struct {
	Sign string `xml:"sign"`
	Line int    `xml:"line"`
}

type xmlNote struct {
	Chord    *struct{} `xml:"chord"`
	Rest     *struct{} `xml:"rest"`
	Pitch    *xmlPitch `xml:"pitch"`
	Duration *int      `xml:"duration"`
	Type     string    `xml:"type,omitempty"`
}

type xmlPitch struct {
	Step   string `xml:"step"`
	Alter  *int   `xml:"alter"`
	Octave int    `xml:"octave"`
}

// partwiseDoctype is the standard public DOCTYPE expected on every emitted
// document.
const partwiseDoctype = `<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 3.1 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">` + "\n"

const scoreVersion = "3.1"
