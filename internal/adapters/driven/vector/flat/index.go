package flat

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/scrutiny/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// ErrDimensionMismatch indicates a vector of the wrong size.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Index stores vectors contiguously and searches them by squared
// Euclidean distance.
type Index struct {
	mu        sync.RWMutex
	dimension int
	data      []float32
	count     int
}

// New creates an empty index for vectors of the given dimension.
func New(dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid dimension %d", dimension)
	}
	return &Index{dimension: dimension}, nil
}

// Factory adapts New to driven.VectorIndexFactory.
func Factory(dimension int) (driven.VectorIndex, error) {
	return New(dimension)
}

// Add appends vectors in order. Either all vectors are added or none.
func (x *Index) Add(vectors [][]float32) error {
	for i, v := range vectors {
		if len(v) != x.dimension {
			return fmt.Errorf("%w: vector %d has %d values, index expects %d",
				ErrDimensionMismatch, i, len(v), x.dimension)
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	for _, v := range vectors {
		x.data = append(x.data, v...)
	}
	x.count += len(vectors)
	return nil
}

// Search returns the k nearest vectors to query, nearest first. Ties keep
// insertion order.
func (x *Index) Search(query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) != x.dimension {
		return nil, fmt.Errorf("%w: query has %d values, index expects %d",
			ErrDimensionMismatch, len(query), x.dimension)
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	if k > x.count {
		k = x.count
	}
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}

	hits := make([]driven.VectorHit, x.count)
	for i := 0; i < x.count; i++ {
		hits[i] = driven.VectorHit{
			Position: i,
			Distance: squaredL2(query, x.data[i*x.dimension:(i+1)*x.dimension]),
		}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Distance < hits[b].Distance
	})

	return hits[:k], nil
}

// Len returns the number of stored vectors.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.count
}

// Dimension returns the vector size the index accepts.
func (x *Index) Dimension() int {
	return x.dimension
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
