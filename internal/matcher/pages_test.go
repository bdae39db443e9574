// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"errors"
	"testing"
)

// countingSource wraps ordered page texts and records which pages were
// decoded, to verify the locator's lazy short-circuit behavior.
type countingSource struct {
	pages   []string
	decoded []int
	failOn  map[int]error
}

func (s *countingSource) PageCount() int { return len(s.pages) }

func (s *countingSource) PageText(pageNumber int) (string, error) {
	s.decoded = append(s.decoded, pageNumber)
	if err, ok := s.failOn[pageNumber]; ok {
		return "", err
	}
	return s.pages[pageNumber-1], nil
}

func TestLocateCitationInPages_FirstQualifyingPageWins(t *testing.T) {
	// Page 1 carries only a low-band fuzzy match; page 2 carries the
	// citation verbatim. First-qualifying-page policy must stop at page 1.
	citation := "Effective termination date of the agreement"
	pages := []string{
		"The termination date of the agreement shall be December 31.",
		"Effective termination date of the agreement",
	}

	result := LocateCitationInPages(citation, pages)
	if result == nil {
		t.Fatal("expected a page match")
	}
	if result.PageIndex != 1 {
		t.Errorf("expected page 1 (first qualifying), got page %d", result.PageIndex)
	}
	if result.Match.Score >= 1.0 {
		t.Errorf("page 1 should carry a fuzzy match, got score %v", result.Match.Score)
	}
}

func TestLocateCitationInPages_SkipsNonQualifyingPages(t *testing.T) {
	pages := []string{
		"Unrelated boilerplate about recitals and definitions.",
		"Yet more unrelated clauses.",
		"Effective Date: July 1, 2021 as stated.",
	}

	result := LocateCitationInPages("Effective Date: July 1, 2021", pages)
	if result == nil {
		t.Fatal("expected a page match")
	}
	if result.PageIndex != 3 {
		t.Errorf("expected page 3, got page %d", result.PageIndex)
	}
	if result.Match.Score != 1.0 {
		t.Errorf("expected exact score on page 3, got %v", result.Match.Score)
	}
}

func TestLocateCitationInPages_NoQualifyingPage(t *testing.T) {
	pages := []string{"alpha beta", "gamma delta"}
	if result := LocateCitationInPages("zebra quantum flux oscillation", pages); result != nil {
		t.Errorf("expected nil, got %+v", result)
	}
}

func TestLocateCitationInPages_EmptyInputs(t *testing.T) {
	if result := LocateCitationInPages("", []string{"text"}); result != nil {
		t.Errorf("expected nil for empty citation, got %+v", result)
	}
	if result := LocateCitationInPages("citation", nil); result != nil {
		t.Errorf("expected nil for no pages, got %+v", result)
	}
}

func TestLocateInSource_DecodesLazily(t *testing.T) {
	src := &countingSource{pages: []string{
		"Front matter without the quote.",
		"Effective Date: July 1, 2021",
		"Later page that must never be decoded.",
		"And another one.",
	}}

	cascade := NewCascade(DefaultParams())
	result, err := cascade.LocateInSource("Effective Date: July 1, 2021", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.PageIndex != 2 {
		t.Fatalf("expected a match on page 2, got %+v", result)
	}
	if len(src.decoded) != 2 {
		t.Errorf("expected exactly 2 pages decoded, got %v", src.decoded)
	}
}

func TestLocateInSource_SkipsFailedPages(t *testing.T) {
	src := &countingSource{
		pages: []string{
			"corrupt",
			"Effective Date: July 1, 2021",
		},
		failOn: map[int]error{1: errors.New("decode failed")},
	}

	cascade := NewCascade(DefaultParams())
	result, err := cascade.LocateInSource("Effective Date: July 1, 2021", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.PageIndex != 2 {
		t.Fatalf("expected a match on page 2, got %+v", result)
	}
}

func TestLocateInSource_AllPagesFailed(t *testing.T) {
	src := &countingSource{
		pages: []string{"a", "b"},
		failOn: map[int]error{
			1: errors.New("decode failed"),
			2: errors.New("decode failed"),
		},
	}

	cascade := NewCascade(DefaultParams())
	result, err := cascade.LocateInSource("anything at all", src)
	if err == nil {
		t.Error("expected an error when every page fails to decode")
	}
	if result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
}

func TestLocateInSourceWithHint_TriesHintFirst(t *testing.T) {
	src := &countingSource{pages: []string{
		"Page one filler.",
		"Page two filler.",
		"Effective Date: July 1, 2021",
	}}

	cascade := NewCascade(DefaultParams())
	result, err := cascade.LocateInSourceWithHint("Effective Date: July 1, 2021", src, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.PageIndex != 3 {
		t.Fatalf("expected a match on hinted page 3, got %+v", result)
	}
	if len(src.decoded) != 1 || src.decoded[0] != 3 {
		t.Errorf("hint should avoid decoding other pages, decoded %v", src.decoded)
	}
}

func TestLocateInSourceWithHint_FallsBackToScan(t *testing.T) {
	src := &countingSource{pages: []string{
		"Effective Date: July 1, 2021",
		"Page two filler.",
		"Page three filler.",
	}}

	cascade := NewCascade(DefaultParams())
	result, err := cascade.LocateInSourceWithHint("Effective Date: July 1, 2021", src, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.PageIndex != 1 {
		t.Fatalf("expected fallback match on page 1, got %+v", result)
	}
	// Hinted page decoded once, then the scan skips it.
	if src.decoded[0] != 2 {
		t.Errorf("hinted page should be tried first, decoded %v", src.decoded)
	}
	for _, page := range src.decoded[1:] {
		if page == 2 {
			t.Errorf("hinted page decoded twice: %v", src.decoded)
		}
	}
}

func TestLocateInSourceWithHint_OutOfRangeHintIgnored(t *testing.T) {
	src := &countingSource{pages: []string{"Effective Date: July 1, 2021"}}

	cascade := NewCascade(DefaultParams())
	result, err := cascade.LocateInSourceWithHint("Effective Date: July 1, 2021", src, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.PageIndex != 1 {
		t.Fatalf("expected a match on page 1, got %+v", result)
	}
}
