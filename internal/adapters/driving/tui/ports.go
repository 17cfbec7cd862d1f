// Package tui provides an interactive terminal browser for validation
// reports. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driving"
)

// Ports aggregates what the TUI needs from the core.
type Ports struct {
	// Report is the validation run being browsed.
	Report *domain.ValidationReport

	// Corpus backs the search view. Optional: without it search reports
	// that no corpus is loaded.
	Corpus *driving.Corpus
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Report == nil {
		return ErrMissingReport
	}
	return nil
}
