// Package chunker provides a paragraph-aware text chunking processor.
package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMinLength is the default minimum chunk length in characters.
const DefaultMinLength = 50

// DefaultMaxLength is the default maximum chunk length in characters.
const DefaultMaxLength = 700

// separator joins paragraphs merged into one chunk.
const separator = "\n\n"

var paragraphBreak = regexp.MustCompile(`\n\s*\n+`)

// Processor splits text into chunks along blank-line paragraph boundaries.
// Lengths are counted in characters (runes), not bytes.
type Processor struct {
	minLength int
	maxLength int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMinLength sets the shortest chunk kept, in characters.
func WithMinLength(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.minLength = n
		}
	}
}

// WithMaxLength sets the longest chunk emitted, in characters.
func WithMaxLength(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxLength = n
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		minLength: DefaultMinLength,
		maxLength: DefaultMaxLength,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.minLength > p.maxLength {
		p.minLength = p.maxLength
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// MinLength returns the configured minimum chunk length.
func (p *Processor) MinLength() int {
	return p.minLength
}

// MaxLength returns the configured maximum chunk length.
func (p *Processor) MaxLength() int {
	return p.maxLength
}

// Split breaks text into chunks.
//
// Paragraphs are merged greedily while the merged chunk stays within the
// maximum length. When the next paragraph does not fit, the running chunk
// is emitted if it reaches the minimum length and discarded otherwise.
// Chunks still longer than the maximum (a single oversized paragraph) are
// cut into maximum-length windows; only the last window may fall below the
// minimum. The result is deterministic and empty for blank input.
func (p *Processor) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var merged []string
	current := ""
	currentLen := 0

	for _, para := range paragraphBreak.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		paraLen := utf8.RuneCountInString(para)

		switch {
		case current == "":
			current, currentLen = para, paraLen
		case currentLen+len(separator)+paraLen <= p.maxLength:
			current += separator + para
			currentLen += len(separator) + paraLen
		default:
			if currentLen >= p.minLength {
				merged = append(merged, current)
			}
			current, currentLen = para, paraLen
		}
	}
	if current != "" && currentLen >= p.minLength {
		merged = append(merged, current)
	}

	chunks := make([]string, 0, len(merged))
	for _, chunk := range merged {
		if utf8.RuneCountInString(chunk) > p.maxLength {
			chunks = append(chunks, p.slice(chunk)...)
			continue
		}
		chunks = append(chunks, chunk)
	}

	return chunks
}

// slice cuts text into consecutive windows of at most maxLength runes.
func (p *Processor) slice(text string) []string {
	runes := []rune(text)
	windows := make([]string, 0, len(runes)/p.maxLength+1)
	for start := 0; start < len(runes); start += p.maxLength {
		end := start + p.maxLength
		if end > len(runes) {
			end = len(runes)
		}
		windows = append(windows, string(runes[start:end]))
	}
	return windows
}
