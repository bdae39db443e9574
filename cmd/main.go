// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"citescope/internal/config"
	"citescope/internal/core"
	"citescope/internal/formatters"
	"citescope/internal/help"
	"citescope/internal/version"

	_ "citescope/internal/formatters/csv"
	_ "citescope/internal/formatters/json"
	_ "citescope/internal/formatters/text"

	"golang.org/x/term"
)

const (
	exitAllFound = 0
	exitNotFound = 1
	exitError    = 2
)

// citationList collects repeated --citation flags.
type citationList []string

func (c *citationList) String() string { return strings.Join(*c, "; ") }

func (c *citationList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

func main() {
	var citations citationList
	flag.Var(&citations, "citation", "Citation to locate, optionally with a page hint as 'text@page' (repeatable)")
	citationsFile := flag.String("citations-file", "", "Path to a file with one citation per line ('text' or 'text@page'; '#' comments allowed)")
	inputFile := flag.String("file", "", "Path to the document to search (.pdf is searched per page, anything else as flat text)")
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	outputFormat := flag.String("format", "", "Output format: text, json, csv (default: text)")
	outputFile := flag.String("output", "", "Path to output file (if not specified, output to stdout)")
	minScore := flag.Float64("min-score", -1, "Minimum acceptance score for fuzzy matches, in [0,1] (default: 0.5)")
	verbose := flag.Bool("verbose", false, "Display offsets and matched text for each finding")
	debug := flag.Bool("debug", false, "Enable debug logging of cascade stages and page decoding")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	quiet := flag.Bool("quiet", false, "Suppress the summary on stderr (useful for scripts)")
	showVersion := flag.Bool("version", false, "Show version information")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		os.Exit(exitAllFound)
	}
	if *showHelp {
		printUsage(*noColor)
		os.Exit(exitAllFound)
	}

	if *inputFile == "" {
		fmt.Fprintf(os.Stderr, "Error: --file is required\n\n")
		printUsage(*noColor)
		os.Exit(exitError)
	}

	cfg := config.LoadConfigOrDefault(*configFile)

	requests, err := collectCitations(citations, *citationsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}
	if len(requests) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no citations given; use --citation or --citations-file\n")
		os.Exit(exitError)
	}

	score := cfg.Defaults.MinScore
	if *minScore >= 0 {
		score = *minScore
	}
	if score > 1 {
		fmt.Fprintf(os.Stderr, "Error: --min-score must be in [0,1], got %v\n", score)
		os.Exit(exitError)
	}

	findings, err := core.LocateCitations(core.LocateConfig{
		FilePath:  *inputFile,
		Citations: requests,
		MinScore:  score,
		Debug:     *debug || cfg.Defaults.Debug,
		Config:    cfg,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}

	format := cfg.Defaults.Format
	if *outputFormat != "" {
		format = *outputFormat
	}

	options := formatters.FormatterOptions{
		Verbose: *verbose || cfg.Defaults.Verbose,
		NoColor: *noColor || cfg.Defaults.NoColor || *outputFile != "" || !isTerminal(os.Stdout),
	}

	output, err := formatters.Export(format, findings, options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output), 0600); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(exitError)
		}
		if !*quiet && !cfg.Defaults.Quiet {
			fmt.Fprintf(os.Stderr, "Results written to %s\n", *outputFile)
		}
	} else {
		fmt.Println(output)
	}

	for _, finding := range findings {
		if !finding.Found {
			os.Exit(exitNotFound)
		}
	}
	os.Exit(exitAllFound)
}

// collectCitations merges the repeated --citation flags with the contents
// of --citations-file, preserving order: flags first, then file entries.
func collectCitations(flags citationList, file string) ([]core.CitationRequest, error) {
	var requests []core.CitationRequest
	for _, arg := range flags {
		requests = append(requests, core.ParseCitationArg(arg))
	}

	if file != "" {
		fromFile, err := core.LoadCitationsFile(file)
		if err != nil {
			return nil, err
		}
		requests = append(requests, fromFile...)
	}
	return requests, nil
}

func printUsage(noColor bool) {
	flag.CommandLine.SetOutput(os.Stdout)
	help.NewSystem(noColor || !isTerminal(os.Stdout)).PrintUsage(flag.PrintDefaults)
}

// isTerminal checks if the file descriptor is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
