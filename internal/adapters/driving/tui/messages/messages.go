// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/scrutiny/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// VerdictSelected is sent when a verdict in the report is opened.
type VerdictSelected struct {
	Verdict domain.Verdict
}

// SearchRequested opens corpus search with an initial query.
type SearchRequested struct {
	Query string
}

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Source  domain.SourceType
	Results []domain.SearchResult
	Err     error
}

// ErrorOccurred reports an error to display.
type ErrorOccurred struct {
	Err error
}

// Quit requests application exit.
type Quit struct{}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewReport lists every verdict in the run.
	ViewReport ViewType = iota
	// ViewVerdict shows one verdict in full.
	ViewVerdict
	// ViewSearch queries the corpus stores.
	ViewSearch
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewReport:
		return "report"
	case ViewVerdict:
		return "verdict"
	case ViewSearch:
		return "search"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}
