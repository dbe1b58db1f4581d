// Command harmonize reads a partwise score-exchange XML file and writes a
// four-part harmonization for the requested instruments, using a manual
// os.Args-driven subcommand dispatch for its harmonize/instruments verbs.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"harmonizer/internal/catalog"
	"harmonizer/internal/engine"
	"harmonizer/internal/report"
)

func main() {
	args := os.Args[1:]
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "harmonize":
		if len(args) < 2 {
			fmt.Println("Error: harmonize requires a score file")
			printUsage()
			os.Exit(1)
		}
		runHarmonize(args[1], args[2:])
	case "instruments":
		listInstruments()
	default:
		printUsage()
		os.Exit(1)
	}
}

func runHarmonize(path string, rest []string) {
	instruments, outDir := parseHarmonizeArgs(rest)
	if len(instruments) == 0 {
		instruments = []string{"Violin"}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading %s: %v\n", path, err)
		os.Exit(1)
	}

	eng := engine.New()
	out, err := eng.Harmonize(data, instruments, filepath.Base(path))
	if err != nil {
		fmt.Printf("Error harmonizing: %v\n", err)
		os.Exit(1)
	}

	if outDir == "" {
		outDir = "."
	}
	harmonyPath := filepath.Join(outDir, out.HarmonyOnly.Filename)
	combinedPath := filepath.Join(outDir, out.Combined.Filename)

	if err := os.WriteFile(harmonyPath, []byte(out.HarmonyOnly.Content), 0644); err != nil {
		fmt.Printf("Error writing %s: %v\n", harmonyPath, err)
		os.Exit(1)
	}
	if err := os.WriteFile(combinedPath, []byte(out.Combined.Content), 0644); err != nil {
		fmt.Printf("Error writing %s: %v\n", combinedPath, err)
		os.Exit(1)
	}

	fmt.Println(report.Render(report.Summary{
		KeyName:     report.FormatKey(out.Metadata.Header.Fifths, out.Metadata.Header.Mode),
		Instruments: instruments,
		Quality:     out.Quality,
		Warnings:    out.Warnings,
		CacheHit:    out.CacheHit,
	}))
	fmt.Printf("\n✓ Wrote %s\n✓ Wrote %s\n", harmonyPath, combinedPath)
}

// parseHarmonizeArgs extracts --instruments (comma-separated) and --out
// from rest via a simple flag-scanning loop.
func parseHarmonizeArgs(rest []string) (instruments []string, outDir string) {
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		switch {
		case arg == "--instruments" || arg == "-i":
			if i+1 < len(rest) {
				instruments = splitInstruments(rest[i+1])
				i++
			}
		case strings.HasPrefix(arg, "--instruments="):
			instruments = splitInstruments(strings.TrimPrefix(arg, "--instruments="))
		case arg == "--out" || arg == "-o":
			if i+1 < len(rest) {
				outDir = rest[i+1]
				i++
			}
		case strings.HasPrefix(arg, "--out="):
			outDir = strings.TrimPrefix(arg, "--out=")
		}
	}
	return instruments, outDir
}

func splitInstruments(s string) []string {
	var out []string
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

func listInstruments() {
	fmt.Println("Built-in instruments:")
	fmt.Println()
	for _, name := range catalog.Names() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println()
	fmt.Println("Unrecognized names fall back to the permissive \"Other\" descriptor.")
}

func printUsage() {
	fmt.Println("Four-Part Harmonizer")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  harmonize harmonize <file.xml> [options]   Harmonize a melody")
	fmt.Println("  harmonize instruments                      List built-in instruments")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --instruments, -i <names>   Comma-separated instrument list (default: Violin)")
	fmt.Println("  --out, -o <dir>             Output directory (default: current directory)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  harmonize harmonize melody.xml --instruments Violin,Viola,Cello")
	fmt.Println("  harmonize harmonize melody.xml -i \"B-flat Clarinet\" -o out/")
}
