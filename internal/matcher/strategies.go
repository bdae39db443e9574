// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"citescope/internal/similarity"
	"citescope/internal/textnorm"
)

// exactStage finds the citation as a case-insensitive literal substring of
// the document. Highest precision, fixed score 1.0.
type exactStage struct{}

func (exactStage) Name() string { return "exact" }

func (exactStage) Locate(citation, document string, _ Params) *MatchResult {
	idx := strings.Index(strings.ToLower(document), strings.ToLower(citation))
	if idx < 0 {
		return nil
	}

	end := idx + len(citation)
	if end > len(document) {
		end = len(document)
	}

	return &MatchResult{
		Start:       idx,
		End:         end,
		Score:       1.0,
		MatchedText: document[idx:end],
	}
}

// normalizedStage finds the normalized citation inside the normalized
// document, then maps the normalized offset back onto the original text.
// The reverse mapping walks the original text counting the normalized
// characters each rune contributes; it is deliberately approximate, and the
// reported range carries a fixed amount of trailing context to compensate.
// Fixed score 0.95.
type normalizedStage struct{}

func (normalizedStage) Name() string { return "normalized" }

func (normalizedStage) Locate(citation, document string, p Params) *MatchResult {
	normCitation := textnorm.Normalize(citation)
	normDocument := textnorm.Normalize(document)
	if normCitation == "" {
		return nil
	}

	normIdx := strings.Index(normDocument, normCitation)
	if normIdx < 0 {
		return nil
	}

	start := originalOffset(document, normIdx)
	end := start + len(normCitation) + p.TrailingContext
	if end > len(document) {
		end = len(document)
	}
	end = alignRuneStart(document, end)

	return &MatchResult{
		Start:       start,
		End:         end,
		Score:       0.95,
		MatchedText: document[start:end],
	}
}

// originalOffset maps an offset in the normalized form of text back to a
// byte offset in the original. It replays the normalization character by
// character: leading whitespace contributes nothing, each interior
// whitespace run contributes a single space, every other rune contributes
// one normalized character. Case folding and quote mapping are treated as
// length-preserving, which holds for the inputs this engine sees.
func originalOffset(text string, normIdx int) int {
	consumed := 0
	inRun := false
	seenNonSpace := false

	for i, r := range text {
		if unicode.IsSpace(r) {
			if !seenNonSpace || inRun {
				continue
			}
			inRun = true
		} else {
			seenNonSpace = true
			inRun = false
		}

		if consumed == normIdx {
			return i
		}
		consumed++
	}

	return len(text)
}

// alignRuneStart moves a byte offset forward to the nearest rune boundary
// so the reported range never splits a multi-byte character.
func alignRuneStart(text string, offset int) int {
	for offset < len(text) && !utf8.RuneStart(text[offset]) {
		offset++
	}
	return offset
}

// windowLCSStage handles fragmented and lightly paraphrased citations. It
// anchors candidate windows at boundary-respecting occurrences of the
// citation's first token, then scores each window by the ordered token
// overlap ratio lcs(citationTokens, windowTokens) / |citationTokens|.
// Accepted when the best ratio reaches Params.LCSAcceptRatio; score is
// 0.6 + 0.3*ratio, so the band is [0.6, 0.9].
type windowLCSStage struct{}

func (windowLCSStage) Name() string { return "window-lcs" }

func (windowLCSStage) Locate(citation, document string, p Params) *MatchResult {
	citationTokens := textnorm.Tokenize(citation)
	if len(citationTokens) == 0 {
		return nil
	}

	windowLen := p.WindowMultiplier * len(citation)
	if windowLen > len(document) {
		windowLen = len(document)
	}

	lowerDocument := strings.ToLower(document)
	firstToken := citationTokens[0]

	bestRatio := -1.0
	bestStart, bestEnd := 0, 0

	for _, anchor := range tokenOccurrences(lowerDocument, firstToken) {
		end := anchor + windowLen
		if end > len(document) {
			end = len(document)
		}
		end = alignRuneStart(document, end)

		window := document[anchor:end]
		windowTokens := textnorm.Tokenize(window)

		lcs := similarity.LCSLength(citationTokens, windowTokens)
		ratio := float64(lcs) / float64(len(citationTokens))

		if ratio > bestRatio {
			bestRatio = ratio
			bestStart, bestEnd = anchor, end
		}
	}

	if bestRatio < p.LCSAcceptRatio {
		return nil
	}

	return &MatchResult{
		Start:       bestStart,
		End:         bestEnd,
		Score:       0.6 + 0.3*bestRatio,
		MatchedText: document[bestStart:bestEnd],
	}
}

// tokenOccurrences returns the byte offsets of every boundary-respecting
// occurrence of token in text. An occurrence only counts when the
// characters on both sides are token boundaries (whitespace, punctuation,
// hyphen, slash, or the text edges). The guard rejects partial-token hits
// such as "01" inside an identifier like "SUI01".
func tokenOccurrences(text, token string) []int {
	if token == "" {
		return nil
	}

	var offsets []int
	from := 0
	for {
		idx := strings.Index(text[from:], token)
		if idx < 0 {
			return offsets
		}
		idx += from

		if boundaryBefore(text, idx) && boundaryAfter(text, idx+len(token)) {
			offsets = append(offsets, idx)
		}
		from = idx + len(token)
	}
}

func boundaryBefore(text string, idx int) bool {
	if idx == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:idx])
	return isTokenBoundary(r)
}

func boundaryAfter(text string, idx int) bool {
	if idx >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[idx:])
	return isTokenBoundary(r)
}

func isTokenBoundary(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// ngramStage is the last resort for heavily fragmented citations. It
// slides a window of twice the citation length across the whole document
// and scores each window by trigram Jaccard similarity against the
// citation. Accepted when the best similarity reaches
// Params.JaccardAcceptSim; score is 0.5 + 0.1*similarity, so the band is
// [0.5, 0.6] and always ranks below every LCS result.
type ngramStage struct{}

func (ngramStage) Name() string { return "ngram-jaccard" }

func (ngramStage) Locate(citation, document string, p Params) *MatchResult {
	citationGrams := similarity.Ngrams(citation, p.NgramSize)
	if len(citationGrams) == 0 {
		return nil
	}

	windowLen := 2 * len(citation)
	if windowLen > len(document) {
		windowLen = len(document)
	}

	stride := len(citation) / p.StrideDivisor
	if stride < 1 {
		stride = 1
	}

	bestSim := -1.0
	bestStart, bestEnd := 0, 0

	for start := 0; start < len(document); start += stride {
		start = alignRuneStart(document, start)
		if start >= len(document) {
			break
		}

		end := start + windowLen
		if end > len(document) {
			end = len(document)
		}
		end = alignRuneStart(document, end)

		sim := similarity.Jaccard(citationGrams, similarity.Ngrams(document[start:end], p.NgramSize))
		if sim > bestSim {
			bestSim = sim
			bestStart, bestEnd = start, end
		}

		if end == len(document) {
			break
		}
	}

	if bestSim < p.JaccardAcceptSim {
		return nil
	}

	return &MatchResult{
		Start:       bestStart,
		End:         bestEnd,
		Score:       0.5 + 0.1*bestSim,
		MatchedText: document[bestStart:bestEnd],
	}
}
