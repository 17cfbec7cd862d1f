package domain

// SearchResult represents a single nearest-neighbour hit.
type SearchResult struct {
	// Document is the matched document.
	Document Document

	// Distance is the squared L2 distance between the query and the
	// document embedding. Smaller is closer.
	Distance float64
}
