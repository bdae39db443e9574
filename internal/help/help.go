// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package help renders the CLI help text, including the per-stage
// explanation of the matching cascade and its score bands.
package help

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
)

// StageInfo describes one cascade stage for the help output.
type StageInfo struct {
	Name        string
	ScoreBand   string
	Description string
}

// Stages lists the cascade stages in precision order.
var Stages = []StageInfo{
	{
		Name:        "exact",
		ScoreBand:   "1.0",
		Description: "case-insensitive literal substring of the document",
	},
	{
		Name:        "normalized",
		ScoreBand:   "0.95",
		Description: "substring after whitespace, case and quote normalization",
	},
	{
		Name:        "window-lcs",
		ScoreBand:   "0.6-0.9",
		Description: "ordered token overlap inside a window anchored at the first citation token",
	},
	{
		Name:        "ngram-jaccard",
		ScoreBand:   "0.5-0.6",
		Description: "character trigram similarity over sliding document windows",
	},
}

// System renders help content with optional colors.
type System struct {
	title    *color.Color
	subtitle *color.Color
}

// NewSystem creates a help system. Colors are disabled when noColor is set.
func NewSystem(noColor bool) *System {
	if noColor {
		color.NoColor = true
	}
	return &System{
		title:    color.New(color.FgWhite, color.Bold),
		subtitle: color.New(color.FgCyan, color.Bold),
	}
}

// PrintUsage writes the full usage text to stdout. printFlags is called
// where the flag defaults belong, so the caller keeps ownership of the
// flag set.
func (s *System) PrintUsage(printFlags func()) {
	s.title.Println("citescope - locate extracted citations inside source documents")
	fmt.Println()

	s.subtitle.Println("Usage:")
	fmt.Println(`  citescope --file contract.pdf --citation "Effective Date: July 1, 2021"`)
	fmt.Println("  citescope --file contract.pdf --citations-file batch.txt --format json")
	fmt.Println()

	s.subtitle.Println("Flags:")
	printFlags()
	fmt.Println()

	s.subtitle.Println("Matching stages (tried in order, first accepted wins):")
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	for _, stage := range Stages {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", stage.Name, stage.ScoreBand, stage.Description)
	}
	w.Flush()
	fmt.Println()

	s.subtitle.Println("Exit codes:")
	fmt.Println("  0  every citation was located")
	fmt.Println("  1  at least one citation was not located")
	fmt.Println("  2  usage or runtime error")
}
