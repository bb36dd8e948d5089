/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package similarity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/playfit/pkg/catalog"
	pferrors "github.com/NVIDIA/playfit/pkg/errors"
	"github.com/NVIDIA/playfit/pkg/library"
)

func titles(names ...string) []catalog.Title {
	out := make([]catalog.Title, len(names))
	for i, n := range names {
		out[i] = catalog.Title{Name: n}
	}
	return out
}

func TestRecommend_ExclusionAndTieBreak(t *testing.T) {
	tests := []struct {
		name     string
		owned    []library.OwnedGame
		eligible []catalog.Title
		k        int
		want     []string
	}{
		{
			name:     "no history",
			owned:    nil,
			eligible: titles("Portal"),
			k:        30,
			want:     []string{},
		},
		{
			name:     "owned title excluded",
			owned:    []library.OwnedGame{{Name: "Half-Life 2", HoursPlayed: 10}},
			eligible: titles("Half-Life 2", "Portal"),
			k:        5,
			want:     []string{"Portal"},
		},
		{
			name:     "identical scores keep eligible order",
			owned:    []library.OwnedGame{{Name: "A", HoursPlayed: 1}, {Name: "B", HoursPlayed: 100}},
			eligible: titles("C", "D"),
			k:        1,
			want:     []string{"C"},
		},
		{
			name:     "ownership ignores case",
			owned:    []library.OwnedGame{{Name: "PORTAL", HoursPlayed: 2}},
			eligible: titles("portal", "Braid"),
			k:        5,
			want:     []string{"Braid"},
		},
		{
			name:     "everything owned",
			owned:    []library.OwnedGame{{Name: "Braid", HoursPlayed: 2}},
			eligible: titles("Braid"),
			k:        5,
			want:     []string{},
		},
		{
			name:     "no eligible titles",
			owned:    []library.OwnedGame{{Name: "Braid", HoursPlayed: 2}},
			eligible: nil,
			k:        5,
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Recommend(tt.owned, tt.eligible, tt.k)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecommend_NonPositiveK(t *testing.T) {
	for _, k := range []int{0, -1} {
		_, err := Recommend([]library.OwnedGame{{Name: "A"}}, titles("B"), k)
		assert.True(t, pferrors.IsCode(err, pferrors.ErrCodeInvalidRequest), "k=%d: %v", k, err)

		_, err = Rank([]library.OwnedGame{{Name: "A"}}, titles("B"), k)
		assert.True(t, pferrors.IsCode(err, pferrors.ErrCodeInvalidRequest), "k=%d: %v", k, err)
	}
}

func TestRecommend_Properties(t *testing.T) {
	c, err := catalog.Load(context.Background())
	require.NoError(t, err)
	eligible := c.Titles()

	owned := []library.OwnedGame{
		{Name: "half-life 2", HoursPlayed: 12.5},
		{Name: "Portal", HoursPlayed: 3},
		{Name: "TERRARIA", HoursPlayed: 210},
		{Name: "Not In Catalog", HoursPlayed: 0},
	}
	remaining := len(ExcludeOwned(owned, eligible))
	require.Equal(t, len(eligible)-3, remaining)

	for _, k := range []int{1, 3, 4, 30, 100} {
		got, err := Recommend(owned, eligible, k)
		require.NoError(t, err)

		assert.Len(t, got, min(k, remaining), "k=%d", k)

		for _, name := range got {
			for _, g := range owned {
				assert.NotEqual(t, Normalize(g.Name), Normalize(name), "owned title %q recommended", name)
			}
		}

		again, err := Recommend(owned, eligible, k)
		require.NoError(t, err)
		assert.Equal(t, got, again, "k=%d: output is not deterministic", k)
	}
}

func TestRank_ScoresMeanOfNearestHours(t *testing.T) {
	owned := []library.OwnedGame{{Name: "A", HoursPlayed: 1}, {Name: "B", HoursPlayed: 100}, {Name: "C", HoursPlayed: 4}}

	scored, err := Rank(owned, titles("X", "Y"), 2)
	require.NoError(t, err)
	require.Len(t, scored, 2)

	assert.Equal(t, "X", scored[0].Title.Name)
	assert.InDelta(t, 2.5, scored[0].Score, 1e-9)
	assert.Equal(t, scored[0].Score, scored[1].Score)
}

func TestExcludeOwned_PreservesOrder(t *testing.T) {
	got := ExcludeOwned(
		[]library.OwnedGame{{Name: "b"}},
		titles("A", "B", "C"),
	)
	assert.Equal(t, titles("A", "C"), got)
}
