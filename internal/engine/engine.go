// Package engine orchestrates the full harmonization pipeline: parsing,
// key inference, chord selection, voice-leading, quality scoring and
// refinement, per-instrument part extraction, and score serialization,
// wrapped in the content-addressed cache.
package engine

import (
	"path/filepath"
	"time"

	"harmonizer/internal/cache"
	"harmonizer/internal/catalog"
	"harmonizer/internal/harmony"
	"harmonizer/internal/score"
	"harmonizer/internal/scoreio"
	"harmonizer/internal/theory"
)

// MaxInstruments is the largest ensemble the engine accepts.
const MaxInstruments = 4

// File is one emitted document: its serialized content and suggested
// filename.
type File struct {
	Content  string
	Filename string
}

// Metadata describes one harmonization call's bookkeeping, independent of
// the produced scores.
type Metadata struct {
	Instruments      []string
	ProcessingTimeMS int64
	OriginalFilename string
	Header           score.Header
}

// Output is the full result of one harmonize call.
type Output struct {
	HarmonyOnly File
	Combined    File
	Metadata    Metadata
	Quality     harmony.Quality
	Warnings    []score.Warning
	CacheHit    bool
}

// Engine ties the pipeline stages to a shared cache.
type Engine struct {
	cache *cache.Cache
}

// New constructs an Engine with a fresh cache.
func New() *Engine {
	return &Engine{cache: cache.New()}
}

// Stats exposes the underlying cache's introspection.
func (e *Engine) Stats() (size int, hits, misses uint64) {
	return e.cache.Stats()
}

type computed struct {
	output Output
}

// Harmonize runs the full pipeline for (bytes, instruments), or returns the
// cached result for an identical call made within the TTL.
// originalFilename is used only to derive the output filenames; it
// defaults to "melody.xml" when empty.
func (e *Engine) Harmonize(bytes []byte, instruments []string, originalFilename string) (Output, error) {
	start := time.Now()

	if len(instruments) < 1 || len(instruments) > MaxInstruments {
		return Output{}, score.Fail(score.InstrumentLimitExceeded, "requested %d instruments, allowed 1..%d", len(instruments), MaxInstruments)
	}

	key := cache.NewKey(bytes, instruments)

	v, err, shared := e.cache.GetOrCompute(key, func() (any, error) {
		out, err := e.compute(bytes, instruments, originalFilename, key)
		if err != nil {
			return nil, err
		}
		out.Metadata.ProcessingTimeMS = time.Since(start).Milliseconds()
		return computed{output: out}, nil
	})
	if err != nil {
		return Output{}, err
	}

	out := v.(computed).output
	out.CacheHit = shared
	return out, nil
}

// compute runs the pipeline once, uncached.
func (e *Engine) compute(bytes []byte, instruments []string, originalFilename string, key cache.Key) (Output, error) {
	parsed, err := scoreio.Read(bytes)
	if err != nil {
		return Output{}, err
	}

	k := theory.NewKey(parsed.Header.Fifths, parsed.Header.Mode)
	slots := harmony.QuantizeToSlots(parsed.Melody, parsed.Header.Divisions)

	seed := seedFromKey(key)
	result := harmony.Harmonize(k, slots, seed, harmony.DefaultVoiceRanges)

	resolved, warnings := resolveInstruments(instruments)
	warnings = append(warnings, result.Warnings...)

	harmonyParts := make([]harmony.Part, len(resolved))
	for i, inst := range resolved {
		p := harmony.ExtractHarmonyPart(inst, parsed.Melody, result.Sonorities, parsed.Header.Divisions, i)
		harmonyParts[i] = p
		warnings = append(warnings, p.Warnings...)
	}

	base := baseFilename(originalFilename)

	harmonyOnlyBytes, err := scoreio.Write(parsed.Header, writtenPartsFor(resolved, harmonyParts))
	if err != nil {
		return Output{}, score.Fail(score.InternalError, "serializing harmony-only score: %v", err)
	}

	var combinedMelodyParts []scoreio.WrittenPart
	if !parsed.Polyphonic {
		combinedMelodyParts = []scoreio.WrittenPart{{ID: "P-melody", Name: parsed.Header.OriginalPartName, Notes: parsed.Melody}}
	} else {
		for i, line := range parsed.AllLines {
			combinedMelodyParts = append(combinedMelodyParts, scoreio.WrittenPart{
				ID:   partID("V", i),
				Name: voiceName(i),
				Notes: line,
			})
		}
	}
	combinedBytes, err := scoreio.Write(parsed.Header, append(combinedMelodyParts, writtenPartsFor(resolved, harmonyParts)...))
	if err != nil {
		return Output{}, score.Fail(score.InternalError, "serializing combined score: %v", err)
	}

	quality := harmony.Score(result.Sonorities, result.Chords, harmony.DefaultVoiceRanges)

	return Output{
		HarmonyOnly: File{Content: string(harmonyOnlyBytes), Filename: "harmony_" + base},
		Combined:    File{Content: string(combinedBytes), Filename: "combined_" + base},
		Metadata: Metadata{
			Instruments:      instruments,
			OriginalFilename: base,
			Header:           parsed.Header,
		},
		Quality:  quality,
		Warnings: warnings,
	}, nil
}

func writtenPartsFor(resolved []catalog.Instrument, parts []harmony.Part) []scoreio.WrittenPart {
	out := make([]scoreio.WrittenPart, len(parts))
	for i, p := range parts {
		inst := resolved[i]
		out[i] = scoreio.WrittenPart{
			ID:    partID("I", i),
			Name:  inst.Name,
			Clef:  &inst,
			Notes: p.Written,
		}
	}
	return out
}

func resolveInstruments(names []string) ([]catalog.Instrument, []score.Warning) {
	out := make([]catalog.Instrument, len(names))
	var warnings []score.Warning
	for i, name := range names {
		inst, usedFallback := catalog.Resolve(name)
		out[i] = inst
		if usedFallback {
			warnings = append(warnings, score.Warning{
				Kind:   score.UnknownInstrument,
				Detail: "unrecognized instrument " + name + "; treated as Other",
				Slot:   -1,
			})
		}
	}
	return out, warnings
}

func partID(prefix string, i int) string {
	return prefix + string(rune('1'+i))
}

func voiceName(i int) string {
	return "Voice " + string(rune('1'+i))
}

func baseFilename(original string) string {
	if original == "" {
		return "melody.xml"
	}
	return filepath.Base(original)
}

// seedFromKey derives the PRNG seed from the low 64 bits of the cache key.
func seedFromKey(key cache.Key) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(key[len(key)-8+i])
	}
	return v
}
