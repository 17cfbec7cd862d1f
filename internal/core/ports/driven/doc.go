// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - EmbeddingService: Turns text into vectors (Gemini, Ollama)
//   - LLMService: Generates the coverage judgments (Gemini, Ollama)
//   - VectorIndex: Exact nearest-neighbour search over embeddings
//   - PageExtractor: Pulls per-page text out of textbook PDFs
//   - ConfigStore: Application configuration
//   - PromptStore: Customisable prompt templates
//
// # Optional Interfaces
//
//   - AIConfigValidator: Pings providers before settings are saved
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
