// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pdftext supplies per-page plain text from PDF documents for
// citation matching. It is the rendering-side collaborator of the matcher:
// pages decode lazily, so a locator that is satisfied by page 2 never pays
// for the rest of the document.
package pdftext

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DefaultMaxPages caps how many pages a single document exposes. Contract
// PDFs above this size are almost always scan appendices; the cap keeps
// worst-case decode cost bounded.
const DefaultMaxPages = 200

// PageText is the extracted plain text of one page.
type PageText struct {
	PageNumber int
	Text       string
}

// Source lazily decodes page text from an open PDF. It implements the
// matcher's PageSource interface. A Source is not safe for concurrent use;
// open one per goroutine.
type Source struct {
	path      string
	file      *os.File
	reader    *pdf.Reader
	pageCount int

	// decoded caches pages already extracted, so retrying a page hint
	// followed by a full scan never decodes a page twice.
	decoded map[int]string
}

// Open validates the file as a PDF and prepares lazy page access.
func Open(path string) (*Source, error) {
	return OpenWithLimit(path, DefaultMaxPages)
}

// OpenWithLimit is Open with a custom page cap.
func OpenWithLimit(path string, maxPages int) (*Source, error) {
	if maxPages < 1 {
		maxPages = DefaultMaxPages
	}

	// Structural validation up front: a truncated or non-PDF file should
	// fail here, not page by page during matching.
	if err := api.ValidateFile(path, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("invalid PDF file: %w", err)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}

	pageCount := r.NumPage()
	if pageCount > maxPages {
		pageCount = maxPages
	}

	return &Source{
		path:      path,
		file:      f,
		reader:    r,
		pageCount: pageCount,
		decoded:   make(map[int]string),
	}, nil
}

// Close releases the underlying file handle.
func (s *Source) Close() error {
	return s.file.Close()
}

// Path returns the file path this source reads from.
func (s *Source) Path() string {
	return s.path
}

// PageCount returns the number of accessible pages.
func (s *Source) PageCount() int {
	return s.pageCount
}

// PageText decodes and returns the plain text of the 1-based page number.
// Results are cached per page for the lifetime of the Source.
func (s *Source) PageText(pageNumber int) (string, error) {
	if pageNumber < 1 || pageNumber > s.pageCount {
		return "", fmt.Errorf("page %d out of range [1,%d]", pageNumber, s.pageCount)
	}
	if text, ok := s.decoded[pageNumber]; ok {
		return text, nil
	}

	p := s.reader.Page(pageNumber)
	if p.V.IsNull() {
		return "", fmt.Errorf("page %d is null", pageNumber)
	}

	text, err := extractPageText(p)
	if err != nil {
		return "", fmt.Errorf("error extracting page %d: %w", pageNumber, err)
	}

	text = cleanPageText(text)
	s.decoded[pageNumber] = text
	return text, nil
}

// ExtractPages eagerly decodes every page of the document in order.
func ExtractPages(path string) ([]PageText, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	pages := make([]PageText, 0, src.PageCount())
	for n := 1; n <= src.PageCount(); n++ {
		text, err := src.PageText(n)
		if err != nil {
			// A single undecodable page should not lose the rest of
			// the document; it participates as an empty page.
			text = ""
		}
		pages = append(pages, PageText{PageNumber: n, Text: text})
	}
	return pages, nil
}

// extractPageText extracts text using row-based positioning for better
// spacing, falling back to plain text extraction when row data is missing.
func extractPageText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	// Sort rows into top-to-bottom reading order by Y coordinate.
	sortedRows := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sortedRows = append(sortedRows, row)
		}
	}
	sort.Slice(sortedRows, func(i, j int) bool {
		return averageY(sortedRows[i].Content) < averageY(sortedRows[j].Content)
	})

	var b strings.Builder
	for _, row := range sortedRows {
		rowText := reconstructRowText(row.Content)
		if strings.TrimSpace(rowText) != "" {
			b.WriteString(rowText)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// averageY calculates the average Y coordinate for text elements in a row.
func averageY(textElements []pdf.Text) float64 {
	if len(textElements) == 0 {
		return 0
	}
	var totalY float64
	for _, element := range textElements {
		totalY += element.Y
	}
	return totalY / float64(len(textElements))
}

// reconstructRowText rebuilds a row left to right, inserting a space
// wherever the horizontal gap between adjacent elements is significant
// relative to the font size. PDF text elements carry no explicit spaces;
// without this, adjacent words fuse and citations stop matching.
func reconstructRowText(textElements []pdf.Text) string {
	if len(textElements) == 0 {
		return ""
	}

	sorted := make([]pdf.Text, len(textElements))
	copy(sorted, textElements)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var b strings.Builder
	for i, element := range sorted {
		b.WriteString(element.S)

		if i < len(sorted)-1 {
			gap := sorted[i+1].X - (element.X + element.W)

			fontSize := element.FontSize
			if fontSize <= 0 {
				fontSize = 12
			}
			// A gap above 20% of the font size reads as a word break.
			if gap > fontSize*0.2 {
				b.WriteString(" ")
			}
		}
	}
	return b.String()
}

// cleanPageText trims lines and collapses in-line whitespace runs while
// keeping line breaks, so layout artifacts don't leak into matching.
func cleanPageText(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
