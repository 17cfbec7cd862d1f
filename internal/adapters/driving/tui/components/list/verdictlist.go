// Package list provides scrollable list components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scrutiny/internal/core/domain"
)

// Filter narrows the verdicts shown in a VerdictList.
type Filter int

const (
	// FilterAll shows every verdict.
	FilterAll Filter = iota
	// FilterInSyllabus shows questions covered by the syllabus.
	FilterInSyllabus
	// FilterOutOfSyllabus shows questions outside the syllabus.
	FilterOutOfSyllabus
	// FilterErrors shows questions where either check failed.
	FilterErrors
)

// String returns the label shown in the report header.
func (f Filter) String() string {
	switch f {
	case FilterAll:
		return "all"
	case FilterInSyllabus:
		return "in syllabus"
	case FilterOutOfSyllabus:
		return "out of syllabus"
	case FilterErrors:
		return "errors"
	default:
		return "unknown"
	}
}

// Next returns the filter that follows f, wrapping around.
func (f Filter) Next() Filter {
	return (f + 1) % (FilterErrors + 1)
}

// Match reports whether v passes the filter.
func (f Filter) Match(v domain.Verdict) bool {
	switch f {
	case FilterInSyllabus:
		return v.SyllabusStatus == domain.SyllabusIn
	case FilterOutOfSyllabus:
		return v.SyllabusStatus == domain.SyllabusOut
	case FilterErrors:
		return v.SyllabusStatus == domain.SyllabusError || v.TextbookStatus == domain.TextbookError
	case FilterAll:
		return true
	default:
		return true
	}
}

// VerdictList displays verdicts with a selection cursor.
type VerdictList struct {
	styles   *styles.Styles
	verdicts []domain.Verdict
	visible  []int
	filter   Filter
	selected int
	offset   int
	width    int
	height   int
}

// NewVerdictList creates a new verdict list component.
func NewVerdictList(s *styles.Styles) *VerdictList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &VerdictList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// SetVerdicts replaces the verdicts and resets the cursor.
func (l *VerdictList) SetVerdicts(verdicts []domain.Verdict) {
	l.verdicts = verdicts
	l.applyFilter()
}

// SetFilter changes the active filter and resets the cursor.
func (l *VerdictList) SetFilter(f Filter) {
	l.filter = f
	l.applyFilter()
}

// Filter returns the active filter.
func (l *VerdictList) Filter() Filter {
	return l.filter
}

func (l *VerdictList) applyFilter() {
	l.visible = l.visible[:0]
	for i, v := range l.verdicts {
		if l.filter.Match(v) {
			l.visible = append(l.visible, i)
		}
	}
	l.selected = 0
	l.offset = 0
}

// Len returns the number of verdicts passing the filter.
func (l *VerdictList) Len() int {
	return len(l.visible)
}

// Selected returns the cursor position within the filtered verdicts.
func (l *VerdictList) Selected() int {
	return l.selected
}

// SelectedVerdict returns the verdict under the cursor, or nil.
func (l *VerdictList) SelectedVerdict() *domain.Verdict {
	if len(l.visible) == 0 {
		return nil
	}
	v := l.verdicts[l.visible[l.selected]]
	return &v
}

// MoveUp moves the selection up.
func (l *VerdictList) MoveUp() {
	if l.selected > 0 {
		l.selected--
		if l.selected < l.offset {
			l.offset = l.selected
		}
	}
}

// MoveDown moves the selection down.
func (l *VerdictList) MoveDown() {
	if l.selected < len(l.visible)-1 {
		l.selected++
		if l.selected >= l.offset+l.rows() {
			l.offset = l.selected - l.rows() + 1
		}
	}
}

// SetDimensions sets the list dimensions.
func (l *VerdictList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// rows is the number of verdicts that fit; each takes two lines.
func (l *VerdictList) rows() int {
	n := l.height / 2
	if n < 1 {
		return 1
	}
	return n
}

// View renders the list.
func (l *VerdictList) View() string {
	if len(l.visible) == 0 {
		return l.styles.Muted.Render("No questions match the current filter.")
	}

	end := l.offset + l.rows()
	if end > len(l.visible) {
		end = len(l.visible)
	}

	lines := make([]string, 0, (end-l.offset)*2)
	for i := l.offset; i < end; i++ {
		v := l.verdicts[l.visible[i]]
		indicator := "  "
		title := fmt.Sprintf("%s  %s", v.QuestionID, truncate(v.QuestionText, l.width-len(v.QuestionID)-6))
		if i == l.selected {
			indicator = "> "
			title = l.styles.Selected.Render(title)
		} else {
			title = l.styles.Normal.Render(title)
		}
		statuses := "    " +
			l.styles.SyllabusStatus(v.SyllabusStatus).Render(v.SyllabusStatus.String()) +
			l.styles.Muted.Render(" / ") +
			l.styles.TextbookStatus(v.TextbookStatus).Render(v.TextbookStatus.String())
		lines = append(lines, indicator+title, statuses)
	}

	return strings.Join(lines, "\n")
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if n < 4 {
		n = 4
	}
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
