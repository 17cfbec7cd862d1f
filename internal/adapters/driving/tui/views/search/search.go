// Package search provides the corpus search view for the TUI.
package search

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driving"
)

// DefaultLimit is the number of chunks fetched per search.
const DefaultLimit = 5

// View represents the search view with input, results list, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	corpus *driving.Corpus
	source domain.SourceType
	limit  int
	ctx    context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = input mode (typing), false = results mode (navigating)
}

// NewView creates a new search view over the corpus stores.
func NewView(s *styles.Styles, km *keymap.KeyMap, corpus *driving.Corpus) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewSearchInput(s),
		list:       list.NewResultList(s),
		statusbar:  status.NewBar(s),
		corpus:     corpus,
		source:     domain.SourceTypeSyllabus,
		limit:      DefaultLimit,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
	v.statusbar.SetHints(km.SearchHelp())
	v.syncLabel()
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewReport}
		}
	case tea.KeyTab:
		v.ToggleSource()
		if query := v.input.Value(); query != "" && !v.focusInput {
			v.statusbar.SetState(status.StateSearching)
			return v, v.performSearch(query)
		}
		return v, nil
	case tea.KeyEnter:
		if v.focusInput {
			query := v.input.Value()
			if query == "" {
				return v, nil
			}
			v.statusbar.SetState(status.StateSearching)
			v.focusInput = false
			v.input.Blur()
			return v, v.performSearch(query)
		}
		return v, nil
	}

	if v.focusInput {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(keyStr, v.keymap.Down):
		v.list.MoveDown()
	case keyStr == "n":
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	}
	return v, nil
}

// performSearch queries the active store off the update loop.
func (v *View) performSearch(query string) tea.Cmd {
	source := v.source
	store, err := v.store()
	ctx := v.ctx
	limit := v.limit
	return func() tea.Msg {
		if err != nil {
			return messages.SearchCompleted{Source: source, Err: err}
		}
		return messages.SearchCompleted{Source: source, Results: store.Search(ctx, query, limit)}
	}
}

func (v *View) store() (driving.RetrievalStore, error) {
	if v.corpus == nil {
		return nil, ErrNoCorpus
	}
	if v.source == domain.SourceTypeTextbook {
		if v.corpus.Textbook == nil {
			return nil, ErrNoTextbook
		}
		return v.corpus.Textbook, nil
	}
	if v.corpus.Syllabus == nil {
		return nil, ErrNoCorpus
	}
	return v.corpus.Syllabus, nil
}

// handleSearchCompleted processes search results.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.err = msg.Err
		v.list.SetResults(nil)
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.list.SetResults(msg.Results)
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage(fmt.Sprintf("%d %s chunks", len(msg.Results), msg.Source))

	v.focusInput = false
	v.input.Blur()
}

// ToggleSource switches between syllabus and textbook search.
func (v *View) ToggleSource() {
	if v.source == domain.SourceTypeSyllabus {
		v.source = domain.SourceTypeTextbook
	} else {
		v.source = domain.SourceTypeSyllabus
	}
	v.syncLabel()
}

func (v *View) syncLabel() {
	v.input.SetLabel(v.source.Label() + ": ")
	v.input.SetWidth(v.width)
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("Corpus Search"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // Reserve space for header, input, status
	v.statusbar.SetWidth(width)
}

// Search seeds the query and runs it immediately. A blank query just
// focuses the input.
func (v *View) Search(query string) tea.Cmd {
	v.Reset()
	if query == "" {
		return v.input.Focus()
	}
	v.input.SetValue(query)
	v.focusInput = false
	v.input.Blur()
	v.statusbar.SetState(status.StateSearching)
	return v.performSearch(query)
}

// Source returns the active search source.
func (v *View) Source() domain.SourceType {
	return v.source
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.input.Value()
}

// Results returns the current search results.
func (v *View) Results() []domain.SearchResult {
	return v.list.Results()
}

// SelectedResult returns the currently selected result.
func (v *View) SelectedResult() *domain.SearchResult {
	return v.list.SelectedResult()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset resets the view to initial input mode.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetResults(nil)
	v.err = nil
	v.statusbar.Clear()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
