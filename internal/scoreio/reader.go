package scoreio

import (
	"encoding/xml"
	"strconv"

	"harmonizer/internal/pitch"
	"harmonizer/internal/score"
)

// MaxNoteEvents is the hard cap on note events accepted in one request.
const MaxNoteEvents = 10000

// ParsedScore is the immutable result of reading an input document: the
// header, the primary melody used for chord selection, and every melodic
// line detected (length 1 for monophonic input).
type ParsedScore struct {
	Header    score.Header
	Melody    score.MelodicLine   // primary line, used to drive harmonization
	AllLines  []score.MelodicLine // every detected line, for combined output
	Polyphonic bool
}

// Read parses raw score-exchange bytes into a ParsedScore, or a typed
// *score.Error on failure.
func Read(data []byte) (*ParsedScore, error) {
	root, err := probeRoot(data)
	if err != nil {
		return nil, err
	}
	if root != "score-partwise" {
		if root == "score-timewise" {
			return nil, score.Fail(score.UnsupportedFormat, "timewise scores are not supported")
		}
		return nil, score.Fail(score.InvalidFormat, "document root %q is not score-partwise", root)
	}

	var doc xmlScorePartwise
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, score.Fail(score.InvalidFormat, "malformed XML: %v", err)
	}
	if len(doc.Parts) == 0 {
		return nil, score.Fail(score.NoParts, "document contains no part elements")
	}

	hdr := extractHeader(doc)

	parts := make([]partNotes, len(doc.Parts))
	totalEvents := 0
	anyChordFlag := false
	for pi, p := range doc.Parts {
		fn := flattenPart(p)
		parts[pi] = partNotes{notes: fn}
		totalEvents += len(fn)
		for _, n := range fn {
			if n.chordFlag {
				anyChordFlag = true
			}
		}
	}
	if totalEvents > MaxNoteEvents {
		return nil, score.Fail(score.InputTooLarge, "input has %d note events, limit is %d", totalEvents, MaxNoteEvents)
	}

	polyphonic := anyChordFlag || len(parts) > 1

	var lines []score.MelodicLine
	if !polyphonic {
		lines = []score.MelodicLine{toMelodicLine(parts[0].notes)}
	} else {
		lines = splitPolyphonic(parts)
	}

	if len(lines) == 0 || countSounding(lines[0]) == 0 {
		return nil, score.Fail(score.EmptyMelody, "primary melodic line has no sounding notes")
	}

	return &ParsedScore{
		Header:     hdr,
		Melody:     lines[0],
		AllLines:   lines,
		Polyphonic: polyphonic,
	}, nil
}

func countSounding(line score.MelodicLine) int {
	n := 0
	for _, e := range line {
		if !e.IsRest() {
			n++
		}
	}
	return n
}

// probeRoot decodes only the root element name of the document, without
// committing to either the partwise or timewise element shape.
func probeRoot(data []byte) (string, error) {
	var probe struct {
		XMLName xml.Name
	}
	if err := xml.Unmarshal(data, &probe); err != nil {
		return "", score.Fail(score.InvalidFormat, "malformed XML: %v", err)
	}
	return probe.XMLName.Local, nil
}

// extractHeader pulls divisions/time/key from the first measure that
// declares an <attributes> block. A missing field, a divisions value below
// 1, or a beats/beat-type value that is not an integer keeps the default.
// Divisions and fifths are decoded as integers by xml.Unmarshal, so
// non-integer text in either makes Read fail with InvalidFormat before
// this runs.
func extractHeader(doc xmlScorePartwise) score.Header {
	hdr := score.Header{
		Divisions: 1,
		Beats:     4,
		BeatType:  4,
		Fifths:    0,
		Mode:      score.Major,
	}
	if len(doc.Parts) > 0 {
		hdr.OriginalPartName = firstPartName(doc)
	}

	for _, p := range doc.Parts {
		for _, m := range p.Measures {
			if m.Attributes == nil {
				continue
			}
			a := m.Attributes
			if a.Divisions != nil && *a.Divisions >= 1 {
				hdr.Divisions = *a.Divisions
			}
			if a.Key != nil {
				if a.Key.Fifths != nil {
					hdr.Fifths = *a.Key.Fifths
				}
				if a.Key.Mode != nil {
					if *a.Key.Mode == "minor" {
						hdr.Mode = score.Minor
					} else {
						hdr.Mode = score.Major
					}
				}
			}
			if a.Time != nil {
				if a.Time.Beats != nil {
					if v, err := strconv.Atoi(*a.Time.Beats); err == nil {
						hdr.Beats = v
					}
				}
				if a.Time.BeatType != nil {
					if v, err := strconv.Atoi(*a.Time.BeatType); err == nil {
						hdr.BeatType = v
					}
				}
			}
			return hdr // first declared attributes block wins
		}
	}
	return hdr
}

func firstPartName(doc xmlScorePartwise) string {
	if len(doc.PartList.ScoreParts) > 0 {
		return doc.PartList.ScoreParts[0].PartName
	}
	return ""
}

// flatNote is a note flattened from the XML tree with its resolved onset.
type flatNote struct {
	p         pitch.Pitch
	duration  score.Ticks
	onset     score.Ticks
	chordFlag bool
}

// partNotes is one part's notes, flattened.
type partNotes struct {
	notes []flatNote
}

// flattenPart walks one part's measures in document order, accumulating
// onset ticks and resolving <chord/>-linked notes to the onset of the
// previous note.
func flattenPart(p xmlPart) []flatNote {
	var out []flatNote
	var onset score.Ticks
	for _, m := range p.Measures {
		for _, n := range m.Notes {
			dur := score.Ticks(0)
			if n.Duration != nil {
				dur = score.Ticks(*n.Duration)
			}
			isChord := n.Chord != nil
			thisOnset := onset
			if isChord && len(out) > 0 {
				thisOnset = out[len(out)-1].onset
			}

			var pv pitch.Pitch
			if n.Rest != nil || n.Pitch == nil {
				pv = pitch.Rest
			} else {
				alter := 0
				if n.Pitch.Alter != nil {
					alter = *n.Pitch.Alter
				}
				pv = pitch.FromStep(n.Pitch.Step, alter, n.Pitch.Octave)
			}

			out = append(out, flatNote{p: pv, duration: dur, onset: thisOnset, chordFlag: isChord})
			if !isChord {
				onset += dur
			}
		}
	}
	return out
}

func toMelodicLine(notes []flatNote) score.MelodicLine {
	line := make(score.MelodicLine, 0, len(notes))
	for _, n := range notes {
		if n.chordFlag {
			continue // same onset as the previous note; not part of a single line
		}
		line = append(line, score.NoteEvent{Pitch: n.p, Duration: n.duration, Onset: n.onset})
	}
	return line
}

// splitPolyphonic assigns every note sounding across all parts to one of k
// melodic lines by descending pitch within each simultaneous group: at each
// distinct onset tick across the whole score, the
// highest-sounding note becomes line 0 (the primary melody), the next
// highest line 1, and so on. Lines shorter than the widest group at a given
// onset receive a rest of that onset's duration, so every line stays
// aligned in time.
func splitPolyphonic(parts []partNotes) []score.MelodicLine {
	type onsetGroup struct {
		onset score.Ticks
		notes []flatNote
	}
	byOnset := map[score.Ticks]*onsetGroup{}
	var order []score.Ticks
	maxWidth := 1

	for _, part := range parts {
		for _, n := range part.notes {
			g, ok := byOnset[n.onset]
			if !ok {
				g = &onsetGroup{onset: n.onset}
				byOnset[n.onset] = g
				order = append(order, n.onset)
			}
			g.notes = append(g.notes, n)
		}
	}
	for _, o := range order {
		g := byOnset[o]
		if len(g.notes) > maxWidth {
			maxWidth = len(g.notes)
		}
	}
	sortTicks(order)

	lines := make([]score.MelodicLine, maxWidth)
	for _, o := range order {
		g := byOnset[o]
		sortNotesDescending(g.notes)
		dur := g.notes[0].duration
		for lineIdx := 0; lineIdx < maxWidth; lineIdx++ {
			if lineIdx < len(g.notes) {
				n := g.notes[lineIdx]
				lines[lineIdx] = append(lines[lineIdx], score.NoteEvent{Pitch: n.p, Duration: n.duration, Onset: o})
			} else {
				lines[lineIdx] = append(lines[lineIdx], score.NoteEvent{Pitch: pitch.Rest, Duration: dur, Onset: o})
			}
		}
	}
	return lines
}

func sortTicks(s []score.Ticks) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

func sortNotesDescending(notes []flatNote) {
	for i := 1; i < len(notes); i++ {
		for j := i; j > 0 && notes[j].p > notes[j-1].p; j-- {
			notes[j], notes[j-1] = notes[j-1], notes[j]
		}
	}
}
