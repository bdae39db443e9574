// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"reflect"
	"strings"
	"testing"
)

const contractDoc = `MASTER SERVICE AGREEMENT

This Agreement is entered into by and between the parties identified below.
Effective Date: July 1, 2021. The initial term shall continue for a period
of thirty-six (36) months unless terminated earlier in accordance with
Section 9. Payment is due in 30 calendar days following invoice processing.
Account codes SUI01 and SUI02 apply to all remittances.`

func TestLocateCitation_ExactSubstring(t *testing.T) {
	citation := "Effective Date: July 1, 2021"

	result := LocateCitation(citation, contractDoc)
	if result == nil {
		t.Fatal("expected a match for a verbatim citation")
	}
	if result.Score != 1.0 {
		t.Errorf("expected score 1.0, got %v", result.Score)
	}
	if result.MatchedText != citation {
		t.Errorf("expected matchedText %q, got %q", citation, result.MatchedText)
	}
	if result.Stage != "exact" {
		t.Errorf("expected exact stage, got %q", result.Stage)
	}
	if got := contractDoc[result.Start:result.End]; got != citation {
		t.Errorf("offsets do not cover the citation: %q", got)
	}
}

func TestLocateCitation_ExactIsCaseInsensitive(t *testing.T) {
	result := LocateCitation("effective date: JULY 1, 2021", contractDoc)
	if result == nil {
		t.Fatal("expected a match")
	}
	if result.Score != 1.0 {
		t.Errorf("expected score 1.0, got %v", result.Score)
	}
	// MatchedText carries the document's casing, not the citation's.
	if result.MatchedText != "Effective Date: July 1, 2021" {
		t.Errorf("unexpected matchedText %q", result.MatchedText)
	}
}

func TestLocateCitation_NormalizedSubstring(t *testing.T) {
	document := "Agreement effective now. Effective Date: July 1, 2021 applies."
	citation := "Effective  Date:  July  1,  2021" // doubled internal spaces

	result := LocateCitation(citation, document)
	if result == nil {
		t.Fatal("expected a normalized match")
	}
	if result.Score != 0.95 {
		t.Errorf("expected score 0.95, got %v", result.Score)
	}
	if result.Stage != "normalized" {
		t.Errorf("expected normalized stage, got %q", result.Stage)
	}
	if result.Start != 25 {
		t.Errorf("expected start offset 25, got %d", result.Start)
	}
	if !strings.HasPrefix(result.MatchedText, "Effective Date: July 1, 2021") {
		t.Errorf("matchedText should start at the located citation, got %q", result.MatchedText)
	}
}

func TestLocateCitation_NormalizedHandlesCurlyQuotes(t *testing.T) {
	document := `The term "Confidential Information" has the meaning set forth above.`
	citation := "the term “Confidential Information”"

	result := LocateCitation(citation, document)
	if result == nil {
		t.Fatal("expected a match despite curly quotes")
	}
	if result.Score != 0.95 {
		t.Errorf("expected score 0.95, got %v", result.Score)
	}
}

func TestLocateCitation_WindowLCS(t *testing.T) {
	citation := "Payment due within 30 days of invoice receipt"

	result := LocateCitation(citation, contractDoc)
	if result == nil {
		t.Fatal("expected a window LCS match")
	}
	if result.Stage != "window-lcs" {
		t.Errorf("expected window-lcs stage, got %q", result.Stage)
	}
	if result.Score < 0.6 || result.Score > 0.9 {
		t.Errorf("expected score in [0.6,0.9], got %v", result.Score)
	}
	if !strings.Contains(result.MatchedText, "Payment is due") {
		t.Errorf("match window should cover the paraphrased clause, got %q", result.MatchedText)
	}
}

func TestLocateCitation_NgramJaccard(t *testing.T) {
	// First citation token never appears in the document, so the LCS stage
	// has no anchor; the trigram stage still finds the shared clause.
	document := "The termination date of the agreement shall be December 31."
	citation := "Effective termination date of the agreement"

	result := LocateCitation(citation, document)
	if result == nil {
		t.Fatal("expected an n-gram match")
	}
	if result.Stage != "ngram-jaccard" {
		t.Errorf("expected ngram-jaccard stage, got %q", result.Stage)
	}
	if result.Score < 0.5 || result.Score > 0.6 {
		t.Errorf("expected score in [0.5,0.6], got %v", result.Score)
	}
}

func TestLocateCitation_NoMatch(t *testing.T) {
	// Below both fuzzy acceptance thresholds: no stage may return a
	// synthetic low-confidence guess.
	result := LocateCitation("zebra quantum flux oscillation", contractDoc)
	if result != nil {
		t.Errorf("expected nil for an unrelated citation, got %+v", result)
	}
}

func TestLocateCitation_Degenerate(t *testing.T) {
	cases := []struct {
		name     string
		citation string
		document string
	}{
		{"empty citation", "", contractDoc},
		{"empty document", "Effective Date", ""},
		{"both empty", "", ""},
		{"punctuation-only citation", "??", contractDoc},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if result := LocateCitation(tc.citation, tc.document); result != nil {
				t.Errorf("expected nil, got %+v", result)
			}
		})
	}
}

func TestLocateCitation_ReferentialTransparency(t *testing.T) {
	citation := "Payment due within 30 days of invoice receipt"

	first := LocateCitation(citation, contractDoc)
	second := LocateCitation(citation, contractDoc)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical calls returned different results: %+v vs %+v", first, second)
	}
}

func TestCascade_MinScoreGatesFuzzyStages(t *testing.T) {
	params := DefaultParams()
	params.MinScore = 0.92

	cascade := NewCascade(params)

	// Fuzzy stages cannot clear 0.92 and must be rejected.
	if result := cascade.Locate("Payment due within 30 days of invoice receipt", contractDoc); result != nil {
		t.Errorf("expected fuzzy match to be gated out, got %+v", result)
	}

	// Exact and normalized stages short-circuit regardless of MinScore.
	if result := cascade.Locate("Effective Date: July 1, 2021", contractDoc); result == nil || result.Score != 1.0 {
		t.Errorf("exact stage should be ungated, got %+v", result)
	}
}

func TestCascade_StagePrecisionOrder(t *testing.T) {
	// A verbatim citation also clears every later stage; the cascade must
	// still report the exact stage.
	result := LocateCitation("Payment is due in 30 calendar days", contractDoc)
	if result == nil {
		t.Fatal("expected a match")
	}
	if result.Stage != "exact" || result.Score != 1.0 {
		t.Errorf("earliest stage must win, got stage %q score %v", result.Stage, result.Score)
	}
}

func TestTokenOccurrences_BoundaryGuard(t *testing.T) {
	// "01" appears inside SUI01 and SUI02 but never as a standalone token.
	offsets := tokenOccurrences(strings.ToLower(contractDoc), "01")
	if len(offsets) != 0 {
		t.Errorf("expected no boundary-respecting occurrences of %q, got %v", "01", offsets)
	}

	offsets = tokenOccurrences(strings.ToLower(contractDoc), "sui01")
	if len(offsets) != 1 {
		t.Errorf("expected one occurrence of %q, got %v", "sui01", offsets)
	}
}

func TestParams_Sanitized(t *testing.T) {
	p := Params{
		MinScore:         -1,
		WindowMultiplier: 0,
		StrideDivisor:    -3,
		LCSAcceptRatio:   0,
		JaccardAcceptSim: 2,
		TrailingContext:  -5,
		NgramSize:        0,
	}

	got := NewCascade(p).Params()
	if !reflect.DeepEqual(got, DefaultParams()) {
		t.Errorf("invalid params should fall back to defaults, got %+v", got)
	}
}
