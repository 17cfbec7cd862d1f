// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The ingestion path runs Chunker, EmbeddingGateway and RetrievalStore;
// the validation path runs the judgment state machine over a Corpus.
//
// Services are pure Go with no CGO.
package services
