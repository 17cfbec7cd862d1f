package tui

import "errors"

// ErrMissingReport is returned when no validation report is provided.
var ErrMissingReport = errors.New("tui: validation report is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
