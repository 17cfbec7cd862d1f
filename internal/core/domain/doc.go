// Package domain defines the core business entities for scrutiny.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A chunk of syllabus or textbook text with metadata
//   - Syllabus: A course outline split into units
//   - Question: A single exam question from a question paper
//   - Verdict: The outcome of scrutinising one question
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
