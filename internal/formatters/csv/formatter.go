// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"citescope/internal/core"
	"citescope/internal/formatters"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(findings []core.Finding, options formatters.FormatterOptions) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	header := []string{"citation", "file", "found", "page", "stage", "score", "start", "end"}
	if options.Verbose {
		header = append(header, "matched_text")
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, finding := range findings {
		record := []string{
			finding.Citation,
			finding.File,
			strconv.FormatBool(finding.Found),
			strconv.Itoa(finding.Page),
			finding.Stage,
			strconv.FormatFloat(finding.Score, 'f', 4, 64),
			strconv.Itoa(finding.Start),
			strconv.Itoa(finding.End),
		}
		if options.Verbose {
			record = append(record, finding.MatchedText)
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV output: %w", err)
	}
	return b.String(), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
