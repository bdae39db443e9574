// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters_test

import (
	"encoding/json"
	"strings"
	"testing"

	"citescope/internal/core"
	"citescope/internal/formatters"
	_ "citescope/internal/formatters/csv"
	_ "citescope/internal/formatters/json"
	_ "citescope/internal/formatters/text"
)

var sampleFindings = []core.Finding{
	{
		Citation:    "Effective Date: July 1, 2021",
		File:        "contract.pdf",
		Found:       true,
		Page:        2,
		Stage:       "exact",
		Score:       1.0,
		Start:       120,
		End:         148,
		MatchedText: "Effective Date: July 1, 2021",
	},
	{
		Citation: "zebra quantum flux oscillation",
		File:     "contract.pdf",
		Found:    false,
	},
}

func TestRegistry_DefaultFormattersRegistered(t *testing.T) {
	for _, name := range []string{"text", "json", "csv"} {
		if _, ok := formatters.Get(name); !ok {
			t.Errorf("expected formatter %q to be registered", name)
		}
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	if _, err := formatters.Export("xml", sampleFindings, formatters.FormatterOptions{}); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestExport_Text(t *testing.T) {
	out, err := formatters.Export("text", sampleFindings, formatters.FormatterOptions{NoColor: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "EXACT") {
		t.Errorf("expected stage marker in output:\n%s", out)
	}
	if !strings.Contains(out, "NOT FOUND") {
		t.Errorf("expected not-found marker in output:\n%s", out)
	}
	if !strings.Contains(out, "1 of 2 citations located") {
		t.Errorf("expected summary line in output:\n%s", out)
	}
}

func TestExport_JSON(t *testing.T) {
	out, err := formatters.Export("json", sampleFindings, formatters.FormatterOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		Findings []core.Finding `json:"findings"`
		Total    int            `json:"total"`
		Located  int            `json:"located"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Total != 2 || decoded.Located != 1 {
		t.Errorf("unexpected counts: total=%d located=%d", decoded.Total, decoded.Located)
	}
	if decoded.Findings[0].Stage != "exact" {
		t.Errorf("unexpected stage %q", decoded.Findings[0].Stage)
	}
}

func TestExport_JSON_Empty(t *testing.T) {
	out, err := formatters.Export("json", nil, formatters.FormatterOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"findings": []`) {
		t.Errorf("expected empty findings array, got:\n%s", out)
	}
}

func TestExport_CSV(t *testing.T) {
	out, err := formatters.Export("csv", sampleFindings, formatters.FormatterOptions{Verbose: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 records, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "citation,file,found") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "exact") || !strings.Contains(lines[1], "1.0000") {
		t.Errorf("unexpected first record: %s", lines[1])
	}
}
