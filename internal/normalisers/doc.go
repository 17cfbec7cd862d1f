// Package normalisers provides extractors that turn source documents into
// plain text. Each extractor knows how to read one family of file formats.
//
// Extractors are handed to the corpus service at startup.
package normalisers
