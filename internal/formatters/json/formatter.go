// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"fmt"

	"citescope/internal/core"
	"citescope/internal/formatters"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Structured JSON output for programmatic consumption"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

// response is the stable JSON envelope rendered around the findings.
type response struct {
	Findings []core.Finding `json:"findings"`
	Total    int            `json:"total"`
	Located  int            `json:"located"`
}

func (f *Formatter) Format(findings []core.Finding, _ formatters.FormatterOptions) (string, error) {
	located := 0
	for _, finding := range findings {
		if finding.Found {
			located++
		}
	}

	if findings == nil {
		findings = []core.Finding{}
	}

	data, err := json.MarshalIndent(response{
		Findings: findings,
		Total:    len(findings),
		Located:  located,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error formatting JSON: %w", err)
	}
	return string(data), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
