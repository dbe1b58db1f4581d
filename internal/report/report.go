// Package report renders a one-shot, lipgloss-styled terminal summary of a
// harmonization run: the resolved key, the per-instrument part list, the
// quality sub-scores, and any warnings raised along the way. It is a
// static, single-render report rather than a live interactive display,
// since this module never drives a running playback loop.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"harmonizer/internal/harmony"
	"harmonizer/internal/pitch"
	"harmonizer/internal/score"
	"harmonizer/internal/theory"
)

// FormatKey renders a header's (fifths, mode) pair as a human-readable key
// name, e.g. "G major" or "E minor".
func FormatKey(fifths int, mode score.Mode) string {
	k := theory.NewKey(fifths, mode)
	sp := pitch.Spell(pitch.Pitch(60+k.TonicPC), fifths)
	name := sp.Step
	if sp.Alter > 0 {
		name += "#"
	} else if sp.Alter < 0 {
		name += "b"
	}
	return name + " " + string(k.Mode)
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	scoreStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF00"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6666"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00"))
)

// Summary is everything the report needs about one harmonization run.
type Summary struct {
	KeyName     string
	Instruments []string
	Quality     harmony.Quality
	Warnings    []score.Warning
	CacheHit    bool
}

// Render formats s as a styled terminal report, in the spirit of
// display.ShowTrack's boxed header and labeled info lines.
func Render(s Summary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Four-Part Harmonization") + "\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("Key: %s | Instruments: %s", s.KeyName, strings.Join(s.Instruments, ", "))) + "\n\n")

	cacheLabel := "miss"
	if s.CacheHit {
		cacheLabel = "hit"
	}
	b.WriteString(labelStyle.Render("Cache: ") + cacheLabel + "\n\n")

	b.WriteString(labelStyle.Render("Quality") + "\n")
	b.WriteString(fmt.Sprintf("  motion:      %s\n", scoreLine(s.Quality.Motion)))
	b.WriteString(fmt.Sprintf("  common tone: %s\n", scoreLine(s.Quality.CommonTone)))
	b.WriteString(fmt.Sprintf("  progression: %s\n", scoreLine(s.Quality.Progression)))
	b.WriteString(fmt.Sprintf("  range:       %s\n", scoreLine(s.Quality.Range)))
	b.WriteString(fmt.Sprintf("  overall:     %s\n\n", scoreStyle.Render(fmt.Sprintf("%.1f", s.Quality.Overall))))

	if len(s.Warnings) == 0 {
		b.WriteString(headerStyle.Render("No warnings.") + "\n")
		return b.String()
	}

	b.WriteString(labelStyle.Render(fmt.Sprintf("Warnings (%d)", len(s.Warnings))) + "\n")
	for _, w := range s.Warnings {
		b.WriteString(warnStyle.Render(fmt.Sprintf("  [%s] slot %d: %s", w.Kind, w.Slot, w.Detail)) + "\n")
	}

	return b.String()
}

func scoreLine(v float64) string {
	return fmt.Sprintf("%5.1f", v)
}
