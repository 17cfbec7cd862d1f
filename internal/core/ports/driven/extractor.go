package driven

import "context"

// Page is the text of one page of a document.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Text is the extracted page text.
	Text string
}

// PageExtractor pulls text out of paginated documents such as PDFs.
type PageExtractor interface {
	// SupportedExtensions returns the file extensions this extractor handles.
	SupportedExtensions() []string

	// ExtractPages returns the pages of the document at path that contain
	// text, in page order. Runs of blank lines are collapsed.
	ExtractPages(ctx context.Context, path string) ([]Page, error)
}
