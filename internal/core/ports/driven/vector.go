package driven

// VectorIndex provides exact nearest-neighbour search over a fixed set of
// vectors. Vectors are identified by the position they were added at.
// An index is built once and never mutated incrementally; callers build a
// new index to replace it.
type VectorIndex interface {
	// Add appends vectors in order. Every vector must have the index dimension.
	Add(vectors [][]float32) error

	// Search finds the k nearest neighbours to the query vector, nearest first.
	// At most min(k, Len()) hits are returned.
	Search(query []float32, k int) ([]VectorHit, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Dimension returns the vector size the index accepts.
	Dimension() int
}

// VectorHit represents a nearest-neighbour result.
type VectorHit struct {
	// Position is the insertion position of the matched vector.
	Position int

	// Distance is the squared L2 distance to the query.
	Distance float64
}

// VectorIndexFactory creates an empty index for vectors of the given dimension.
type VectorIndexFactory func(dimension int) (VectorIndex, error)
