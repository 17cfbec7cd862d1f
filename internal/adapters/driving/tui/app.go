package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/views/report"
	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/scrutiny/internal/adapters/driving/tui/views/verdict"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides the report and corpus being browsed.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles

	reportView  *report.View
	verdictView *verdict.View
	searchView  *search.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is where search and help return to.
	previousView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		reportView:  report.NewView(s, km, ports.Report),
		verdictView: verdict.NewView(s, km),
		searchView:  search.NewView(s, km, ports.Corpus),
		currentView: messages.ViewReport,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("scrutiny - Question Paper Report"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewReport:
			a.reportView, cmd = a.reportView.Update(msg)
		case messages.ViewVerdict:
			a.verdictView, cmd = a.verdictView.Update(msg)
		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
			a.err = a.searchView.Err()
		case messages.ViewHelp:
			if msg.Type == tea.KeyEsc || msg.String() == "q" {
				a.currentView = a.previousView
			}
		}
		return a, cmd

	case messages.VerdictSelected:
		a.verdictView.SetVerdict(msg.Verdict)
		a.currentView = messages.ViewVerdict
		return a, nil

	case messages.SearchRequested:
		a.previousView = a.currentView
		a.currentView = messages.ViewSearch
		return a, a.searchView.Search(msg.Query)

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.ViewChanged:
		switch {
		case msg.View == messages.ViewHelp:
			a.previousView = a.currentView
		case a.currentView == messages.ViewSearch && msg.View == messages.ViewReport:
			// Leaving search returns to wherever it was opened from.
			a.currentView = a.previousView
			return a, nil
		}
		a.currentView = msg.View
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	if a.currentView == messages.ViewSearch {
		a.searchView, cmd = a.searchView.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewReport:
		return a.reportView.View()
	case messages.ViewVerdict:
		return a.verdictView.View()
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.reportView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Report:
  j/k, ↑/↓    Navigate questions
  enter       Show verdict details
  f           Cycle filter (all, in syllabus, out of syllabus, errors)
  /           Search the corpus for the selected question
  q           Quit

Verdict:
  /           Search the corpus for this question
  esc         Back to report

Search:
  (type)      Enter search query
  enter       Submit search
  tab         Switch between syllabus and textbook
  n           New search
  esc         Back

[esc] back`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.reportView.SetDimensions(width, height)
	a.verdictView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
}
