// Package verdict provides the single-question detail view for the TUI.
package verdict

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scrutiny/internal/core/domain"
)

// View shows one verdict with both reasonings.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar
	verdict   *domain.Verdict

	width  int
	height int
	ready  bool
}

// NewView creates a new verdict view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		statusbar: status.NewBar(s),
		width:     80,
		height:    24,
	}
	v.statusbar.SetHints(km.VerdictHelp())
	return v
}

// SetVerdict sets the verdict to display.
func (v *View) SetVerdict(verdict domain.Verdict) {
	v.verdict = &verdict
}

// Verdict returns the displayed verdict, or nil.
func (v *View) Verdict() *domain.Verdict {
	return v.verdict
}

// Update handles messages for the verdict view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		keyStr := msg.String()
		switch {
		case keymap.Matches(keyStr, v.keymap.Quit):
			return v, func() tea.Msg { return messages.Quit{} }
		case keymap.Matches(keyStr, v.keymap.Back):
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewReport} }
		case keymap.Matches(keyStr, v.keymap.Search):
			if v.verdict == nil {
				return v, nil
			}
			query := v.verdict.QuestionText
			return v, func() tea.Msg { return messages.SearchRequested{Query: query} }
		}
	}
	return v, nil
}

// View renders the verdict view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}
	if v.verdict == nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			v.styles.Muted.Render("No question selected."),
			"",
			v.statusbar.View(),
		)
	}

	wrap := lipgloss.NewStyle().Width(v.width - 4)
	vd := v.verdict

	sections := []string{
		v.styles.Title.Render("Question " + vd.QuestionID),
		wrap.Render(vd.QuestionText),
		"",
		v.styles.Subtitle.Render("Syllabus"),
		v.styles.SyllabusStatus(vd.SyllabusStatus).Render(vd.SyllabusStatus.String()),
		wrap.Render(v.reasoning(vd.SyllabusReasoning)),
		"",
		v.styles.Subtitle.Render("Textbook"),
		v.styles.TextbookStatus(vd.TextbookStatus).Render(vd.TextbookStatus.String()),
		wrap.Render(v.reasoning(vd.TextbookReasoning)),
		"",
		v.statusbar.View(),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) reasoning(text string) string {
	if text == "" {
		return v.styles.Muted.Render("(no reasoning given)")
	}
	return v.styles.Normal.Render(text)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.statusbar.SetWidth(width)
}
