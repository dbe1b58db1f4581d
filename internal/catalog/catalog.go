// Package catalog holds the built-in instrument descriptors and resolves
// requested instrument names to them, falling back to the permissive
// "Other" descriptor for anything unrecognized. The loader unmarshals an
// embedded YAML reference document rather than a user-supplied track file.
package catalog

import (
	_ "embed"

	"gopkg.in/yaml.v3"

	"harmonizer/internal/pitch"
)

//go:embed instruments.yaml
var catalogYAML []byte

// ClefSign is the clef letter MusicXML recognizes.
type ClefSign string

const (
	ClefG ClefSign = "G"
	ClefF ClefSign = "F"
	ClefC ClefSign = "C"
)

// Instrument is a built-in or fallback instrument descriptor.
type Instrument struct {
	Name          string      `yaml:"name"`
	ClefSign      ClefSign    `yaml:"clef_sign"`
	ClefLine      int         `yaml:"clef_line"`
	MinMIDI       pitch.Pitch `yaml:"min_midi"`
	MaxMIDI       pitch.Pitch `yaml:"max_midi"`
	Transposition int         `yaml:"transposition"`
}

type catalogDoc struct {
	Instruments []Instrument `yaml:"instruments"`
	Fallback    Instrument   `yaml:"fallback"`
}

var (
	builtins []Instrument
	fallback Instrument
	byName   map[string]Instrument
)

func init() {
	var doc catalogDoc
	if err := yaml.Unmarshal(catalogYAML, &doc); err != nil {
		panic("catalog: embedded instruments.yaml is invalid: " + err.Error())
	}
	builtins = doc.Instruments
	fallback = doc.Fallback
	byName = make(map[string]Instrument, len(builtins))
	for _, in := range builtins {
		byName[in.Name] = in
	}
}

// Fallback returns the permissive "Other" descriptor.
func Fallback() Instrument { return fallback }

// Lookup resolves name to its built-in descriptor. ok is false when name is
// not in the catalog, in which case the caller should use Fallback and
// attach an UnknownInstrument warning.
func Lookup(name string) (in Instrument, ok bool) {
	in, ok = byName[name]
	return in, ok
}

// Resolve returns the descriptor for name, falling back to Fallback()
// without error; it reports whether the fallback was used.
func Resolve(name string) (in Instrument, usedFallback bool) {
	if in, ok := byName[name]; ok {
		return in, false
	}
	return fallback, true
}

// Names returns the built-in catalog's instrument names, in declaration
// order.
func Names() []string {
	names := make([]string, len(builtins))
	for i, in := range builtins {
		names[i] = in.Name
	}
	return names
}
