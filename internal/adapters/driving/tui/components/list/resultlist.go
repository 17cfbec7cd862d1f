package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scrutiny/internal/core/domain"
)

// ResultList displays corpus search results with a selection cursor.
type ResultList struct {
	styles   *styles.Styles
	results  []domain.SearchResult
	selected int
	offset   int
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// SetResults updates the displayed results.
func (l *ResultList) SetResults(results []domain.SearchResult) {
	l.results = results
	l.selected = 0
	l.offset = 0
}

// Results returns the current results.
func (l *ResultList) Results() []domain.SearchResult {
	return l.results
}

// Selected returns the currently selected index.
func (l *ResultList) Selected() int {
	return l.selected
}

// SelectedResult returns the currently selected result, or nil.
func (l *ResultList) SelectedResult() *domain.SearchResult {
	if len(l.results) == 0 {
		return nil
	}
	return &l.results[l.selected]
}

// MoveUp moves the selection up.
func (l *ResultList) MoveUp() {
	if l.selected > 0 {
		l.selected--
		if l.selected < l.offset {
			l.offset = l.selected
		}
	}
}

// MoveDown moves the selection down.
func (l *ResultList) MoveDown() {
	if l.selected < len(l.results)-1 {
		l.selected++
		if l.selected >= l.offset+l.rows() {
			l.offset = l.selected - l.rows() + 1
		}
	}
}

// SetDimensions sets the list dimensions.
func (l *ResultList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// rows is the number of results that fit; each takes three lines.
func (l *ResultList) rows() int {
	n := l.height / 3
	if n < 1 {
		return 1
	}
	return n
}

// View renders the list.
func (l *ResultList) View() string {
	if len(l.results) == 0 {
		return l.styles.Muted.Render("No results.")
	}

	end := l.offset + l.rows()
	if end > len(l.results) {
		end = len(l.results)
	}

	lines := make([]string, 0, (end-l.offset)*3)
	for i := l.offset; i < end; i++ {
		r := l.results[i]
		indicator := "  "
		header := fmt.Sprintf("%d. %s", i+1, describe(r.Document))
		if i == l.selected {
			indicator = "> "
			header = l.styles.Selected.Render(header)
		} else {
			header = l.styles.Normal.Render(header)
		}
		meta := l.styles.Muted.Render(fmt.Sprintf("    %s  distance %.4f", r.Document.ChunkID(), r.Distance))
		preview := l.styles.Muted.Render("    " + truncate(r.Document.Content(), l.width-6))
		lines = append(lines, indicator+header, meta, preview)
	}

	return strings.Join(lines, "\n")
}

// describe names where a document came from.
func describe(doc domain.Document) string {
	if unit := doc.Meta(domain.MetaUnitID); unit != "" {
		if title := doc.Meta(domain.MetaUnitTitle); title != "" {
			return unit + ": " + title
		}
		return unit
	}
	if name := doc.Meta(domain.MetaDocumentName); name != "" {
		return name
	}
	return doc.SourceType().Label()
}
