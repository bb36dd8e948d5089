/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package similarity

import (
	"math"
	"sort"
)

// Neighbor is one reference value returned by a query.
type Neighbor struct {
	// Index is the position of the value in the reference distribution.
	Index    int
	Value    float64
	Distance float64
}

// NeighborIndex is a one-dimensional brute-force nearest neighbor index.
// It is immutable after construction and safe for concurrent queries.
type NeighborIndex struct {
	values []float64
}

// NewNeighborIndex builds an index over a copy of values.
func NewNeighborIndex(values []float64) *NeighborIndex {
	v := make([]float64, len(values))
	copy(v, values)
	return &NeighborIndex{values: v}
}

// Len returns the number of reference values.
func (ix *NeighborIndex) Len() int {
	return len(ix.values)
}

// Query returns the k values closest to probe by absolute distance, nearest
// first. Equal distances keep reference order. k is clamped to [0, Len()].
func (ix *NeighborIndex) Query(probe float64, k int) []Neighbor {
	k = max(0, min(k, len(ix.values)))

	all := make([]Neighbor, len(ix.values))
	for i, v := range ix.values {
		all[i] = Neighbor{Index: i, Value: v, Distance: math.Abs(probe - v)}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Distance < all[j].Distance
	})
	return all[:k]
}

// MeanDistance returns the average distance from probe to its k nearest
// neighbors, or 0 when the index is empty or k <= 0.
func (ix *NeighborIndex) MeanDistance(probe float64, k int) float64 {
	nn := ix.Query(probe, k)
	if len(nn) == 0 {
		return 0
	}
	var sum float64
	for _, n := range nn {
		sum += n.Distance
	}
	return sum / float64(len(nn))
}
