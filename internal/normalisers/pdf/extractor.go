// Package pdf extracts per-page text from PDF files.
package pdf

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driven"
	"github.com/custodia-labs/scrutiny/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.PageExtractor = (*Extractor)(nil)

var blankLines = regexp.MustCompile(`\n\s*\n+`)

// Extractor reads PDF text layers page by page. Scanned pages without a
// text layer come back empty and are skipped.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the file extensions handled by this extractor.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".pdf"}
}

// ExtractPages returns the non-empty pages of the PDF at path.
func (e *Extractor) ExtractPages(ctx context.Context, path string) (pages []driven.Page, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%w: %s: malformed pdf: %v", domain.ErrExtraction, path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrExtraction, path, err)
	}
	defer f.Close()

	total := r.NumPage()
	logger.Debug("Extracting %d pages from %s", total, path)

	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %s page %d: %w", domain.ErrExtraction, path, i, err)
		}
		text = Clean(text)
		if text == "" {
			continue
		}
		pages = append(pages, driven.Page{Number: i, Text: text})
	}

	return pages, nil
}

// Clean collapses runs of blank lines into a single paragraph break and
// trims surrounding whitespace.
func Clean(text string) string {
	return strings.TrimSpace(blankLines.ReplaceAllString(text, "\n\n"))
}
