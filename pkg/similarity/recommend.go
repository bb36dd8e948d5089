/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package similarity ranks candidate titles by how close they sit to the
// play-time distribution of a user's library.
//
// The reference distribution is the hours played of every owned title, in
// library order. Each candidate is queried with a probe value of 0 and scored
// by the mean distance to its k nearest reference values; lower scores rank
// first and ties keep candidate order. Because every probe is 0, all
// candidates currently receive the same score and the ranking reduces to the
// first k candidates in order.
package similarity

import (
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/NVIDIA/playfit/pkg/catalog"
	pferrors "github.com/NVIDIA/playfit/pkg/errors"
	"github.com/NVIDIA/playfit/pkg/library"
)

// probeValue is the feature value of a title with no play history.
const probeValue = 0.0

// Scored is a candidate together with its neighbor score.
type Scored struct {
	Title catalog.Title
	Score float64
}

// Normalize returns the form of name used for ownership comparisons.
func Normalize(name string) string {
	// a Caser keeps state, so one is created per call
	return cases.Lower(language.Und).String(name)
}

// ExcludeOwned returns the titles in eligible whose normalized name matches
// no owned game, in their original order.
func ExcludeOwned(owned []library.OwnedGame, eligible []catalog.Title) []catalog.Title {
	caser := cases.Lower(language.Und)

	ownedNames := make(map[string]struct{}, len(owned))
	for _, g := range owned {
		ownedNames[caser.String(g.Name)] = struct{}{}
	}

	out := make([]catalog.Title, 0, len(eligible))
	for _, t := range eligible {
		if _, ok := ownedNames[caser.String(t.Name)]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Rank scores every candidate against the play-time distribution of owned
// and returns all of them sorted by ascending score. Ties keep candidate
// order. It returns an empty slice when owned or candidates is empty.
func Rank(owned []library.OwnedGame, candidates []catalog.Title, k int) ([]Scored, error) {
	if k <= 0 {
		return nil, pferrors.NewWithContext(pferrors.ErrCodeInvalidRequest,
			"number of recommendations must be positive", map[string]any{"k": k})
	}
	if len(owned) == 0 || len(candidates) == 0 {
		return []Scored{}, nil
	}

	hours := make([]float64, len(owned))
	for i, g := range owned {
		hours[i] = g.HoursPlayed
	}
	ix := NewNeighborIndex(hours)
	neighbors := min(k, ix.Len())

	scored := make([]Scored, len(candidates))
	for i, t := range candidates {
		scored[i] = Scored{Title: t, Score: ix.MeanDistance(probeValue, neighbors)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score < scored[j].Score
	})
	return scored, nil
}

// Recommend returns up to k names from eligible, best match first, leaving
// out every title the user already owns. The result is empty when owned is
// empty or no eligible title remains. k must be positive.
func Recommend(owned []library.OwnedGame, eligible []catalog.Title, k int) ([]string, error) {
	if k <= 0 {
		return nil, pferrors.NewWithContext(pferrors.ErrCodeInvalidRequest,
			"number of recommendations must be positive", map[string]any{"k": k})
	}

	candidates := ExcludeOwned(owned, eligible)
	if len(candidates) == 0 || len(owned) == 0 {
		return []string{}, nil
	}

	scored, err := Rank(owned, candidates, k)
	if err != nil {
		return nil, err
	}

	n := min(k, len(scored))
	out := make([]string, n)
	for i := range n {
		out[i] = scored[i].Title.Name
	}
	return out, nil
}
