// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package matcher locates extracted citation text inside source documents.
//
// Citations produced by AI extraction claim to quote the document verbatim
// but routinely diverge from it: collapsed whitespace, smart-quote variants,
// OCR fragmentation, light paraphrase. A naive substring search therefore
// fails often. The matcher runs a cascade of four strategies in strict
// precision order — exact substring, normalized substring, sliding-window
// LCS, and n-gram Jaccard — and returns the first accepted result. Score
// bands are disjoint by stage, so a score alone identifies how a match was
// found. A citation that no stage accepts yields nil, never a synthetic
// low-confidence guess.
package matcher

import (
	"citescope/internal/observability"
)

// MatchResult describes where a citation was located inside the searched
// text. Start and End are half-open byte offsets into that text. Score is
// in [0,1] and falls into a disjoint band per stage:
//
//	1.0         exact substring
//	0.95        normalized substring
//	[0.6, 0.9]  sliding-window LCS
//	[0.5, 0.6]  n-gram Jaccard
type MatchResult struct {
	Start       int
	End         int
	Score       float64
	MatchedText string

	// Stage names the cascade stage that produced this result.
	Stage string
}

// Params holds the cascade's tunable constants. The window sizing and
// stride values have no documented derivation; they are carried as
// configuration rather than constants so they can be calibrated against
// real document sets.
type Params struct {
	// MinScore is the acceptance floor applied to the fuzzy stages
	// (window LCS and n-gram Jaccard). The exact and normalized stages
	// short-circuit unconditionally.
	MinScore float64

	// WindowMultiplier sizes the LCS search window as a multiple of the
	// citation length.
	WindowMultiplier int

	// StrideDivisor controls the n-gram scan stride: citation length
	// divided by this value.
	StrideDivisor int

	// LCSAcceptRatio is the minimum ordered-token overlap ratio for the
	// window LCS stage to produce a result.
	LCSAcceptRatio float64

	// JaccardAcceptSim is the minimum trigram Jaccard similarity for the
	// n-gram stage to produce a result.
	JaccardAcceptSim float64

	// TrailingContext is the fixed number of extra characters appended
	// to a normalized-substring match. The reverse offset mapping from
	// normalized to original text is approximate, and the slack keeps
	// the tail of the citation inside the reported range.
	TrailingContext int

	// NgramSize is the character n-gram length for the Jaccard stage.
	NgramSize int
}

// DefaultParams returns the stock cascade tuning.
func DefaultParams() Params {
	return Params{
		MinScore:         0.5,
		WindowMultiplier: 3,
		StrideDivisor:    4,
		LCSAcceptRatio:   0.5,
		JaccardAcceptSim: 0.3,
		TrailingContext:  20,
		NgramSize:        3,
	}
}

// sanitized returns a copy of p with out-of-range fields replaced by their
// defaults, so a partially filled config cannot disable a stage by accident.
func (p Params) sanitized() Params {
	d := DefaultParams()
	if p.MinScore < 0 || p.MinScore > 1 {
		p.MinScore = d.MinScore
	}
	if p.WindowMultiplier < 1 {
		p.WindowMultiplier = d.WindowMultiplier
	}
	if p.StrideDivisor < 1 {
		p.StrideDivisor = d.StrideDivisor
	}
	if p.LCSAcceptRatio <= 0 || p.LCSAcceptRatio > 1 {
		p.LCSAcceptRatio = d.LCSAcceptRatio
	}
	if p.JaccardAcceptSim <= 0 || p.JaccardAcceptSim > 1 {
		p.JaccardAcceptSim = d.JaccardAcceptSim
	}
	if p.TrailingContext < 0 {
		p.TrailingContext = d.TrailingContext
	}
	if p.NgramSize < 1 {
		p.NgramSize = d.NgramSize
	}
	return p
}

// strategy is one matching stage: locate the citation in the document, or
// report nil when the stage's own acceptance criteria are not met.
type strategy interface {
	Name() string
	Locate(citation, document string, p Params) *MatchResult
}

// stageEntry pairs a strategy with its gating behavior. Gated stages must
// additionally clear Params.MinScore; ungated stages short-circuit the
// cascade unconditionally.
type stageEntry struct {
	strategy strategy
	gated    bool
}

// Cascade runs the four matching stages in strict precision order. The
// first accepted stage wins; later stages are never consulted.
type Cascade struct {
	params   Params
	stages   []stageEntry
	observer *observability.StandardObserver
}

// NewCascade creates a cascade with the given tuning. Out-of-range
// parameter fields fall back to their defaults.
func NewCascade(params Params) *Cascade {
	return &Cascade{
		params: params.sanitized(),
		stages: []stageEntry{
			{strategy: exactStage{}, gated: false},
			{strategy: normalizedStage{}, gated: false},
			{strategy: windowLCSStage{}, gated: true},
			{strategy: ngramStage{}, gated: true},
		},
	}
}

// WithObserver attaches an observability component. Stage timings and
// outcomes are recorded per Locate call when debug observability is on.
func (c *Cascade) WithObserver(observer *observability.StandardObserver) *Cascade {
	c.observer = observer
	return c
}

// Params returns the effective (sanitized) tuning of this cascade.
func (c *Cascade) Params() Params {
	return c.params
}

// Locate runs the cascade for one citation against one text. It returns
// nil when no stage accepts — an expected outcome, not an error. The call
// is pure: identical inputs always produce identical results.
func (c *Cascade) Locate(citation, document string) *MatchResult {
	if citation == "" || document == "" {
		return nil
	}

	for _, entry := range c.stages {
		var finishTiming func(bool, map[string]interface{})
		if c.observer != nil {
			finishTiming = c.observer.StartTiming("cascade", entry.strategy.Name(), "")
		}

		result := entry.strategy.Locate(citation, document, c.params)
		if result != nil && entry.gated && result.Score < c.params.MinScore {
			result = nil
		}

		if finishTiming != nil {
			meta := map[string]interface{}{"accepted": result != nil}
			if result != nil {
				meta["score"] = result.Score
			}
			finishTiming(true, meta)
		}

		if result != nil {
			result.Stage = entry.strategy.Name()
			return result
		}
	}

	return nil
}

// LocateCitation locates a citation in a flat document text using the
// default cascade tuning. Returns nil when the citation cannot be located
// at or above the default minimum score.
func LocateCitation(citation, document string) *MatchResult {
	return NewCascade(DefaultParams()).Locate(citation, document)
}
