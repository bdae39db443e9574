// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package core wires the citation matcher to real documents. It resolves a
// document into flat text or lazily decoded PDF pages, runs the cascade per
// citation, and produces the findings the formatters render. This is the
// shared logic behind the CLI; the matching engine itself stays free of
// file and page concerns.
package core

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"citescope/internal/config"
	"citescope/internal/matcher"
	"citescope/internal/observability"
	"citescope/internal/preprocessors/pdftext"
)

// CitationRequest is one citation to locate, with an optional 1-based page
// hint from the extraction service. A zero hint means no hint.
type CitationRequest struct {
	Text     string
	PageHint int
}

// Finding is the outcome of locating one citation in one document.
// Not-found is an expected outcome, reported with Found=false rather than
// an error.
type Finding struct {
	Citation    string  `json:"citation"`
	File        string  `json:"file"`
	Found       bool    `json:"found"`
	Page        int     `json:"page,omitempty"` // 1-based; 0 for flat text documents
	Stage       string  `json:"stage,omitempty"`
	Score       float64 `json:"score,omitempty"`
	Start       int     `json:"start,omitempty"`
	End         int     `json:"end,omitempty"`
	MatchedText string  `json:"matched_text,omitempty"`
}

// LocateConfig holds configuration for a locate run.
type LocateConfig struct {
	FilePath  string
	Citations []CitationRequest
	MinScore  float64
	Debug     bool
	Config    *config.Config
}

// LocateCitations locates every requested citation in the document. PDF
// documents are searched page by page with lazy decoding; any other file
// is read whole and searched as flat text.
func LocateCitations(cfg LocateConfig) ([]Finding, error) {
	if cfg.Config == nil {
		cfg.Config = config.LoadConfigOrDefault("")
	}
	if len(cfg.Citations) == 0 {
		return nil, fmt.Errorf("no citations to locate")
	}

	level := observability.LevelMetrics
	if cfg.Debug {
		level = observability.LevelDebug
	}
	observer := observability.NewStandardObserver(level, os.Stderr)

	cascade := matcher.NewCascade(cfg.Config.MatcherParams(cfg.MinScore)).WithObserver(observer)

	if strings.EqualFold(filepath.Ext(cfg.FilePath), ".pdf") {
		return locateInPDF(cascade, cfg)
	}
	return locateInFlatText(cascade, cfg)
}

func locateInPDF(cascade *matcher.Cascade, cfg LocateConfig) ([]Finding, error) {
	src, err := pdftext.OpenWithLimit(cfg.FilePath, cfg.Config.PDF.MaxPages)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer src.Close()

	findings := make([]Finding, 0, len(cfg.Citations))
	for _, request := range cfg.Citations {
		finding := Finding{Citation: request.Text, File: cfg.FilePath}

		var pageMatch *matcher.PageMatch
		if request.PageHint > 0 {
			pageMatch, err = cascade.LocateInSourceWithHint(request.Text, src, request.PageHint)
		} else {
			pageMatch, err = cascade.LocateInSource(request.Text, src)
		}
		if err != nil {
			return nil, err
		}

		if pageMatch != nil {
			finding.Found = true
			finding.Page = pageMatch.PageIndex
			finding.Stage = pageMatch.Match.Stage
			finding.Score = pageMatch.Match.Score
			finding.Start = pageMatch.Match.Start
			finding.End = pageMatch.Match.End
			finding.MatchedText = pageMatch.Match.MatchedText
		}
		findings = append(findings, finding)
	}
	return findings, nil
}

func locateInFlatText(cascade *matcher.Cascade, cfg LocateConfig) ([]Finding, error) {
	data, err := os.ReadFile(filepath.Clean(cfg.FilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	document := string(data)

	findings := make([]Finding, 0, len(cfg.Citations))
	for _, request := range cfg.Citations {
		finding := Finding{Citation: request.Text, File: cfg.FilePath}

		if match := cascade.Locate(request.Text, document); match != nil {
			finding.Found = true
			finding.Stage = match.Stage
			finding.Score = match.Score
			finding.Start = match.Start
			finding.End = match.End
			finding.MatchedText = match.MatchedText
		}
		findings = append(findings, finding)
	}
	return findings, nil
}

// ParseCitationArg parses the CLI citation syntax "text" or "text@page",
// where the page suffix is the extraction service's 1-based page hint.
// An "@" not followed by a plain integer belongs to the citation text.
func ParseCitationArg(arg string) CitationRequest {
	at := strings.LastIndex(arg, "@")
	if at < 0 {
		return CitationRequest{Text: arg}
	}

	page, err := strconv.Atoi(arg[at+1:])
	if err != nil || page < 1 {
		return CitationRequest{Text: arg}
	}
	return CitationRequest{Text: arg[:at], PageHint: page}
}

// LoadCitationsFile reads citations from a file, one per line, in the same
// "text" or "text@page" syntax as the CLI flag. Blank lines and lines
// starting with '#' are skipped.
func LoadCitationsFile(path string) ([]CitationRequest, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open citations file: %w", err)
	}
	defer f.Close()

	var citations []CitationRequest
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		citations = append(citations, ParseCitationArg(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read citations file: %w", err)
	}
	return citations, nil
}
