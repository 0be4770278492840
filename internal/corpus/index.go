package corpus

import (
	"math"
	"sort"
)

// Index pairs records with their embedding vectors. Frozen after construction
// and safe for unbounded concurrent reads
type Index struct {
	records []Record
	vectors [][]float32
}

// NewIndex builds an index; records beyond the vector count are dropped so
// the two slices always stay parallel
func NewIndex(records []Record, vectors [][]float32) *Index {
	n := len(records)
	if len(vectors) < n {
		n = len(vectors)
	}
	return &Index{records: records[:n], vectors: vectors[:n]}
}

// Empty returns an index with no records; every query yields nothing
func Empty() *Index {
	return &Index{}
}

// Len returns the number of indexed records
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.records)
}

// Records returns the backing record slice; callers must not mutate it
func (ix *Index) Records() []Record {
	if ix == nil {
		return nil
	}
	return ix.records
}

// TopK ranks records by dot product against q, descending, ties keeping
// original index order, and returns the first k. An empty index or
// non-positive k yields nil
func (ix *Index) TopK(q []float32, k int) []Record {
	// -Inf floor so even fully opposed vectors stay rankable
	return ix.TopKMin(q, k, float32(math.Inf(-1)))
}

// TopKMin is TopK with a similarity floor: records scoring <= min are
// excluded before the cut
func (ix *Index) TopKMin(q []float32, k int, min float32) []Record {
	if ix.Len() == 0 || k <= 0 {
		return nil
	}

	sims := make([]float32, len(ix.vectors))
	for i, v := range ix.vectors {
		sims[i] = dot(v, q)
	}

	order := make([]int, len(sims))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return sims[order[a]] > sims[order[b]]
	})

	out := make([]Record, 0, k)
	for _, i := range order {
		if len(out) == k {
			break
		}
		if sims[i] <= min {
			continue
		}
		out = append(out, ix.records[i])
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// dot uses the shorter length when dimensions disagree
func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
