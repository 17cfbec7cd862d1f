// Package report provides the verdict overview view for the TUI.
package report

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scrutiny/internal/core/domain"
)

// Summary counts verdicts by outcome.
type Summary struct {
	Total         int
	InSyllabus    int
	OutOfSyllabus int
	InTextbook    int
	Errors        int
}

// Summarise counts the verdicts in a report.
func Summarise(verdicts []domain.Verdict) Summary {
	s := Summary{Total: len(verdicts)}
	for _, v := range verdicts {
		switch v.SyllabusStatus {
		case domain.SyllabusIn:
			s.InSyllabus++
		case domain.SyllabusOut:
			s.OutOfSyllabus++
		case domain.SyllabusError:
		}
		if v.TextbookStatus == domain.TextbookYes {
			s.InTextbook++
		}
		if v.SyllabusStatus == domain.SyllabusError || v.TextbookStatus == domain.TextbookError {
			s.Errors++
		}
	}
	return s
}

// View lists the verdicts of one validation run.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	list      *list.VerdictList
	statusbar *status.Bar
	report    *domain.ValidationReport
	summary   Summary

	width  int
	height int
	ready  bool
}

// NewView creates a new report view.
func NewView(s *styles.Styles, km *keymap.KeyMap, report *domain.ValidationReport) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		list:      list.NewVerdictList(s),
		statusbar: status.NewBar(s),
		width:     80,
		height:    24,
	}
	v.statusbar.SetHints(km.ReportHelp())
	v.SetReport(report)
	return v
}

// SetReport replaces the report being shown.
func (v *View) SetReport(report *domain.ValidationReport) {
	v.report = report
	var verdicts []domain.Verdict
	if report != nil {
		verdicts = report.Verdicts
	}
	v.list.SetVerdicts(verdicts)
	v.summary = Summarise(verdicts)
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the report view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	case keymap.Matches(keyStr, v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case keymap.Matches(keyStr, v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(keyStr, v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(keyStr, v.keymap.Filter):
		v.list.SetFilter(v.list.Filter().Next())
	case keymap.Matches(keyStr, v.keymap.Select):
		if selected := v.list.SelectedVerdict(); selected != nil {
			verdict := *selected
			return v, func() tea.Msg { return messages.VerdictSelected{Verdict: verdict} }
		}
	case keymap.Matches(keyStr, v.keymap.Search):
		query := ""
		if selected := v.list.SelectedVerdict(); selected != nil {
			query = selected.QuestionText
		}
		return v, func() tea.Msg { return messages.SearchRequested{Query: query} }
	}
	return v, nil
}

// View renders the report view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("Question Paper Scrutiny"))
	if v.report != nil && v.report.CorpusID != "" {
		sections = append(sections, v.styles.Muted.Render(fmt.Sprintf("Run %s against corpus %s", v.report.RunID, v.report.CorpusID)))
	}
	sections = append(sections,
		v.renderSummary(),
		v.styles.Subtitle.Render(fmt.Sprintf("Showing: %s (%d)", v.list.Filter(), v.list.Len())),
		"",
		v.list.View(),
		"",
		v.statusbar.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderSummary() string {
	s := v.summary
	return fmt.Sprintf("%s  %s  %s  %s  %s",
		v.styles.Normal.Render(fmt.Sprintf("%d questions", s.Total)),
		v.styles.Pass.Render(fmt.Sprintf("%d in syllabus", s.InSyllabus)),
		v.styles.Fail.Render(fmt.Sprintf("%d out of syllabus", s.OutOfSyllabus)),
		v.styles.Pass.Render(fmt.Sprintf("%d in textbook", s.InTextbook)),
		v.styles.Error.Render(fmt.Sprintf("%d errors", s.Errors)),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.list.SetDimensions(width, height-9)
	v.statusbar.SetWidth(width)
}

// Summary returns the verdict counts.
func (v *View) Summary() Summary {
	return v.summary
}

// Filter returns the active list filter.
func (v *View) Filter() list.Filter {
	return v.list.Filter()
}

// SelectedVerdict returns the verdict under the cursor, or nil.
func (v *View) SelectedVerdict() *domain.Verdict {
	return v.list.SelectedVerdict()
}
