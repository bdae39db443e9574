// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package highlight decides which rendered text fragments belong to a
// located citation match.
//
// Matching runs against flattened page text, but renderers split the same
// text into arbitrary fragments that ignore word boundaries, so character
// offsets from the matcher do not transfer into the fragment model. The
// projector re-derives membership per fragment from the text alone. It is
// pure and side-effect free, and is re-invoked for every fragment on every
// render.
package highlight

import (
	"strings"

	"citescope/internal/matcher"
	"citescope/internal/textnorm"
)

// HighlightRange is the renderer-facing description of a located match in
// a paginated document. PageIndex is 1-based. Start and End are offsets
// into that page's flattened text; renderers that cannot consume offsets
// use MatchedText with ShouldHighlight instead.
type HighlightRange struct {
	PageIndex   int
	Start       int
	End         int
	MatchedText string
}

// RangeFromPageMatch converts a page locator result into a HighlightRange.
func RangeFromPageMatch(pm *matcher.PageMatch) *HighlightRange {
	if pm == nil {
		return nil
	}
	return &HighlightRange{
		PageIndex:   pm.PageIndex,
		Start:       pm.Match.Start,
		End:         pm.Match.End,
		MatchedText: pm.Match.MatchedText,
	}
}

// ShouldHighlight reports whether one rendered fragment belongs to the
// matched citation text. Three rules are tried in order:
//
//  1. the fragment is contained in the normalized matched text;
//  2. the matched text is contained in the fragment;
//  3. the fragment's trimmed text exactly equals one citation token, or a
//     space- or comma-joined concatenation of consecutive citation tokens.
//
// Rule 3 is an exact-equality rule on whole tokens. A fragment like
// "SUI01" that merely shares the digits "01" with the citation fails all
// three rules and stays unhighlighted.
func ShouldHighlight(fragment, matchedText string) bool {
	normFragment := textnorm.Normalize(fragment)
	normMatched := textnorm.Normalize(matchedText)
	if normFragment == "" || normMatched == "" {
		return false
	}

	if strings.Contains(normMatched, normFragment) {
		return true
	}
	if strings.Contains(normFragment, normMatched) {
		return true
	}

	return matchesTokenRun(normFragment, textnorm.Tokenize(matchedText))
}

// matchesTokenRun reports whether the fragment equals a single token or an
// exact joined run of consecutive tokens. Renderers commonly emit runs
// joined by a space or by a comma, so both joins are checked.
func matchesTokenRun(fragment string, tokens []string) bool {
	for i := range tokens {
		spaceRun := tokens[i]
		commaRun := tokens[i]
		if fragment == spaceRun {
			return true
		}
		for j := i + 1; j < len(tokens); j++ {
			spaceRun += " " + tokens[j]
			commaRun += ", " + tokens[j]
			if fragment == spaceRun || fragment == commaRun {
				return true
			}
			// Runs only grow; stop once both variants are longer
			// than the fragment.
			if len(spaceRun) > len(fragment) && len(commaRun) > len(fragment) {
				break
			}
		}
	}
	return false
}
