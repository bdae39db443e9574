// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"citescope/internal/core"
	"citescope/internal/formatters"

	"github.com/fatih/color"
)

// Formatter implements human-readable text output
type Formatter struct {
	found    *color.Color
	fuzzy    *color.Color
	notFound *color.Color
	detail   *color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		found:    color.New(color.FgGreen),
		fuzzy:    color.New(color.FgYellow),
		notFound: color.New(color.FgRed),
		detail:   color.New(color.FgCyan),
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(findings []core.Finding, options formatters.FormatterOptions) (string, error) {
	if options.NoColor {
		color.NoColor = true
	}

	if len(findings) == 0 {
		return "No citations processed.", nil
	}

	var b strings.Builder
	foundCount := 0

	for _, finding := range findings {
		f.writeFinding(&b, finding, options)
		if finding.Found {
			foundCount++
		}
	}

	b.WriteString(fmt.Sprintf("\n%d of %d citations located.\n", foundCount, len(findings)))
	return b.String(), nil
}

func (f *Formatter) writeFinding(b *strings.Builder, finding core.Finding, options formatters.FormatterOptions) {
	if !finding.Found {
		b.WriteString(f.notFound.Sprintf("✗ NOT FOUND"))
		b.WriteString(fmt.Sprintf("  %s\n", truncate(finding.Citation, 70)))
		return
	}

	// Exact and normalized matches are trustworthy; the fuzzy bands get a
	// visually distinct marker so reviewers double-check the highlight.
	marker := f.found.Sprintf("✓ %-10s", strings.ToUpper(finding.Stage))
	if finding.Score < 0.95 {
		marker = f.fuzzy.Sprintf("~ %-10s", strings.ToUpper(finding.Stage))
	}

	b.WriteString(marker)
	b.WriteString(fmt.Sprintf("  score=%.2f", finding.Score))
	if finding.Page > 0 {
		b.WriteString(fmt.Sprintf("  page=%d", finding.Page))
	}
	b.WriteString(fmt.Sprintf("  %s\n", truncate(finding.Citation, 58)))

	if options.Verbose {
		b.WriteString(f.detail.Sprintf("    offsets=[%d,%d)\n", finding.Start, finding.End))
		b.WriteString(f.detail.Sprintf("    matched=%q\n", truncate(finding.MatchedText, 90)))
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
