// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package textnorm canonicalizes document and citation text before matching.
// Extracted citations routinely differ from the literal document text in
// case, whitespace runs, and quote glyphs; normalizing both sides first lets
// the matching stages compare like with like.
package textnorm

import (
	"strings"
	"unicode"
)

// quoteReplacer maps the curly quote variants produced by word processors
// and PDF renderers onto plain ASCII quotes.
var quoteReplacer = strings.NewReplacer(
	"‘", "'", // left single quotation mark
	"’", "'", // right single quotation mark
	"“", `"`, // left double quotation mark
	"”", `"`, // right double quotation mark
)

// Normalize lowercases text, collapses whitespace runs to a single space,
// maps curly quotes to straight quotes, and trims the result. It is a total
// function and idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = quoteReplacer.Replace(text)
	text = strings.Join(strings.Fields(text), " ")
	return text
}

// tokenDelimiters are the punctuation characters treated as token boundaries
// in addition to whitespace. Contract text separates clauses and identifiers
// with these far more often than with spaces alone.
const tokenDelimiters = ",;:-/()[]."

// Tokenize normalizes text and splits it into word tokens. Pieces are split
// on whitespace and on the delimiter set, stripped of any remaining
// non-alphanumeric characters, and dropped when shorter than 2 characters.
func Tokenize(text string) []string {
	normalized := Normalize(text)

	pieces := strings.FieldsFunc(normalized, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(tokenDelimiters, r)
	})

	var tokens []string
	for _, piece := range pieces {
		token := stripNonAlphanumeric(piece)
		if len(token) >= 2 {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// stripNonAlphanumeric removes every rune that is not a letter or digit.
func stripNonAlphanumeric(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
