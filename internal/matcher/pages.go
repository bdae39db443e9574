// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"fmt"
)

// pageScoreFloor is the qualification floor for paginated lookup. It is a
// fixed global floor, independent of the cascade's configurable MinScore:
// a page either carries a usable match or the scan moves on.
const pageScoreFloor = 0.5

// PageMatch is a located citation within a paginated document. PageIndex
// is 1-based, matching how reviewers and PDF viewers number pages.
type PageMatch struct {
	PageIndex int
	Match     MatchResult
}

// PageSource supplies per-page plain text for a paginated document.
// Implementations are expected to decode lazily: PageText is only called
// for pages the locator actually needs, so a match on page 2 of a
// 200-page document never decodes the remaining 198.
type PageSource interface {
	// PageCount returns the number of pages in the document.
	PageCount() int

	// PageText returns the plain text of the 1-based page number.
	PageText(pageNumber int) (string, error)
}

// pageSlice adapts an in-memory ordered page list to PageSource.
type pageSlice []string

func (p pageSlice) PageCount() int { return len(p) }

func (p pageSlice) PageText(pageNumber int) (string, error) {
	if pageNumber < 1 || pageNumber > len(p) {
		return "", fmt.Errorf("page %d out of range [1,%d]", pageNumber, len(p))
	}
	return p[pageNumber-1], nil
}

// LocateInPages runs the cascade against each page's text in order and
// returns the first page whose match qualifies. First-qualifying-page wins
// over best-across-all-pages: reviewers want the first mention, and the
// scan stops as soon as a page satisfies the floor. Returns nil when no
// page qualifies.
func (c *Cascade) LocateInPages(citation string, pages []string) *PageMatch {
	result, _ := c.LocateInSource(citation, pageSlice(pages))
	return result
}

// LocateInSource is LocateInPages over a lazily decoding PageSource.
// Pages whose decode fails are skipped; an error is returned only when
// every page failed to decode, since then nothing was actually searched.
func (c *Cascade) LocateInSource(citation string, src PageSource) (*PageMatch, error) {
	return c.locateInSource(citation, src, 0)
}

// LocateInSourceWithHint tries the hinted 1-based page first, then falls
// back to a full in-order scan. Extraction services often record which
// page a field came from; honoring the hint usually avoids decoding any
// other page at all. A hint outside the document's page range is ignored.
func (c *Cascade) LocateInSourceWithHint(citation string, src PageSource, pageHint int) (*PageMatch, error) {
	if pageHint >= 1 && pageHint <= src.PageCount() {
		if text, err := src.PageText(pageHint); err == nil {
			if match := c.Locate(citation, text); match != nil && match.Score >= pageScoreFloor {
				return &PageMatch{PageIndex: pageHint, Match: *match}, nil
			}
		}
	}
	return c.locateInSource(citation, src, pageHint)
}

func (c *Cascade) locateInSource(citation string, src PageSource, skipPage int) (*PageMatch, error) {
	if citation == "" {
		return nil, nil
	}

	pageCount := src.PageCount()
	decodeFailures := 0
	var firstErr error

	for page := 1; page <= pageCount; page++ {
		if page == skipPage {
			continue
		}

		text, err := src.PageText(page)
		if err != nil {
			decodeFailures++
			if firstErr == nil {
				firstErr = err
			}
			if c.observer != nil {
				c.observer.LogFailure("page-locator", "decode_page", err)
			}
			continue
		}

		match := c.Locate(citation, text)
		if match != nil && match.Score >= pageScoreFloor {
			return &PageMatch{PageIndex: page, Match: *match}, nil
		}
	}

	if pageCount > 0 && decodeFailures == pageCount {
		return nil, fmt.Errorf("no page text could be decoded: %w", firstErr)
	}
	return nil, nil
}

// LocateCitationInPages locates a citation across ordered page texts using
// the default cascade tuning. Returns nil when no page qualifies.
func LocateCitationInPages(citation string, pages []string) *PageMatch {
	return NewCascade(DefaultParams()).LocateInPages(citation, pages)
}
