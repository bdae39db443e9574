// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package similarity provides the lexical similarity primitives used by the
// citation matching cascade: character n-gram sets with Jaccard overlap for
// coarse scoring, and longest-common-subsequence length for ordered token
// alignment.
package similarity

import (
	"citescope/internal/textnorm"
)

// DefaultNgramSize is the n-gram window used by the matching cascade.
// Trigrams are small enough to survive OCR fragmentation but large enough
// that common English digraphs don't dominate the overlap.
const DefaultNgramSize = 3

// Ngrams returns the set of length-n substrings of the normalized text.
// The result is deduplicated and unordered. If the normalized text is
// shorter than n runes, the set is empty.
func Ngrams(text string, n int) map[string]struct{} {
	grams := make(map[string]struct{})
	if n <= 0 {
		return grams
	}

	runes := []rune(textnorm.Normalize(text))
	for i := 0; i+n <= len(runes); i++ {
		grams[string(runes[i:i+n])] = struct{}{}
	}
	return grams
}

// Jaccard returns |A∩B| / |A∪B| for two n-gram sets. It is symmetric and
// bounded to [0,1]. When both sets are empty the union is empty and the
// similarity is defined as 0.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	// Iterate the smaller set for the intersection.
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	intersection := 0
	for gram := range small {
		if _, ok := large[gram]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// LCSLength returns the length of the longest common subsequence of two
// token slices. The subsequence is order-preserving but not contiguous.
// Standard dynamic program, O(len(a)*len(b)) time with a two-row table.
func LCSLength(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
