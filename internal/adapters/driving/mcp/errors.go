// Package mcp provides an MCP (Model Context Protocol) server adapter for scrutiny.
// It lets AI assistants load a course corpus, search it, and check question
// papers against it.
package mcp

import "errors"

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("mcp: session service is required")
