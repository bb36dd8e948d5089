/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package catalog

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	pferrors "github.com/NVIDIA/playfit/pkg/errors"
)

const maxSuggestions = 3

// Lookup returns the title whose name matches name, ignoring case. When no
// title matches, the NOT_FOUND error lists close names under "suggestions".
func (c *Catalog) Lookup(name string) (Title, error) {
	if i, ok := c.index[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c.titles[i], nil
	}

	ctx := map[string]any{"title": name}
	if s := c.Suggest(name); len(s) > 0 {
		ctx["suggestions"] = s
	}
	return Title{}, pferrors.NewWithContext(pferrors.ErrCodeNotFound, "title not in catalog", ctx)
}

// Suggest returns up to three catalog names close to name by edit distance,
// nearest first. Ties keep catalog order.
func (c *Catalog) Suggest(name string) []string {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil
	}

	threshold := max(3, len(query)/3)

	type candidate struct {
		name string
		dist int
		pos  int
	}
	var candidates []candidate
	for i, t := range c.titles {
		d := levenshtein.ComputeDistance(query, strings.ToLower(t.Name))
		if d <= threshold {
			candidates = append(candidates, candidate{name: t.Name, dist: d, pos: i})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})

	out := make([]string, 0, min(maxSuggestions, len(candidates)))
	for _, cand := range candidates {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, cand.name)
	}
	return out
}
