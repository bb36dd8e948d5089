/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeighborIndex_Query(t *testing.T) {
	ix := NewNeighborIndex([]float64{5, 1, 3, 1, 9})

	tests := []struct {
		name        string
		probe       float64
		k           int
		wantIndexes []int
	}{
		{"nearest to zero", 0, 3, []int{1, 3, 2}},
		{"ties keep reference order", 2, 4, []int{1, 2, 3, 0}},
		{"k larger than index", 0, 10, []int{1, 3, 2, 0, 4}},
		{"k zero", 0, 0, []int{}},
		{"k negative", 0, -3, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ix.Query(tt.probe, tt.k)
			idx := make([]int, 0, len(got))
			for _, n := range got {
				idx = append(idx, n.Index)
			}
			assert.Equal(t, tt.wantIndexes, idx)
		})
	}
}

func TestNeighborIndex_MeanDistance(t *testing.T) {
	ix := NewNeighborIndex([]float64{1, 100})

	assert.InDelta(t, 1.0, ix.MeanDistance(0, 1), 1e-9)
	assert.InDelta(t, 50.5, ix.MeanDistance(0, 2), 1e-9)
	assert.InDelta(t, 49.5, ix.MeanDistance(50, 2), 1e-9)
	assert.Zero(t, NewNeighborIndex(nil).MeanDistance(0, 3))
	assert.Zero(t, ix.MeanDistance(0, 0))
}

func TestNewNeighborIndex_CopiesValues(t *testing.T) {
	values := []float64{1, 2}
	ix := NewNeighborIndex(values)
	values[0] = 100

	assert.Equal(t, 1.0, ix.Query(0, 1)[0].Value)
	assert.Equal(t, 2, ix.Len())
}
