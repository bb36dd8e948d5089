/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package library models the games a user owns and the sources they are
// read from.
package library

import (
	"context"
	"fmt"
	"sort"
	"strings"

	pferrors "github.com/NVIDIA/playfit/pkg/errors"
	"github.com/NVIDIA/playfit/pkg/header"
	"github.com/NVIDIA/playfit/pkg/validation"
)

// Kind is the document kind of a serialized library.
const Kind = "Library"

// OwnedGame is one title in a user's library with its total play time.
type OwnedGame struct {
	Name        string  `json:"name" yaml:"name" validate:"required"`
	HoursPlayed float64 `json:"hoursPlayed" yaml:"hoursPlayed" validate:"finite,gte=0"`
}

// Library is the serializable form of a user's owned games.
type Library struct {
	header.Header `json:",inline" yaml:",inline"`

	SteamID string      `json:"steamId,omitempty" yaml:"steamId,omitempty"`
	Games   []OwnedGame `json:"games" yaml:"games" validate:"dive"`
}

// New returns a Library document for games.
func New(steamID string, games []OwnedGame) *Library {
	l := &Library{SteamID: steamID, Games: games}
	l.Set(Kind)
	return l
}

// TotalHours returns the sum of hours played across the library.
func (l *Library) TotalHours() float64 {
	var total float64
	for _, g := range l.Games {
		total += g.HoursPlayed
	}
	return total
}

// String renders a summary line followed by one game per line.
func (l *Library) String() string {
	var b strings.Builder
	owner := l.SteamID
	if owner == "" {
		owner = "library"
	}
	fmt.Fprintf(&b, "%s: %d games, %.1f hours played\n", owner, len(l.Games), l.TotalHours())
	for _, g := range l.Games {
		fmt.Fprintf(&b, "%s (%.1f h)\n", g.Name, g.HoursPlayed)
	}
	return b.String()
}

// Source provides the owned games of a user.
type Source interface {
	OwnedGames(ctx context.Context, steamID string) ([]OwnedGame, error)
}

// Validate returns a DATA_FORMAT error when a record has no name or a
// negative or non-finite play time.
func Validate(games []OwnedGame) error {
	doc := struct {
		Games []OwnedGame `json:"games" validate:"dive"`
	}{Games: games}
	return validation.Struct(doc, pferrors.ErrCodeDataFormat, "invalid library record")
}

// SortByName orders games by name in place. Equal names keep their order.
func SortByName(games []OwnedGame) {
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].Name < games[j].Name
	})
}
