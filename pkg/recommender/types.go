/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package recommender

import (
	"fmt"
	"strings"

	"github.com/NVIDIA/playfit/pkg/catalog"
	"github.com/NVIDIA/playfit/pkg/hardware"
	"github.com/NVIDIA/playfit/pkg/header"
)

const (
	// KindRecommendation is the document kind of a Recommendation.
	KindRecommendation = "Recommendation"

	// KindTitleList is the document kind of a TitleList.
	KindTitleList = "TitleList"

	// NoticeNothingToAnalyze is reported when the library is empty or no
	// catalog title fits the hardware.
	NoticeNothingToAnalyze = "No games found for analysis or no compatible games for this system."

	// NoticeNothingNew is reported when the user owns every compatible title.
	NoticeNothingNew = "No new games available to recommend."
)

// RankedRecommendation is one suggested title. Rank starts at 1.
type RankedRecommendation struct {
	Rank int    `json:"rank" yaml:"rank"`
	Name string `json:"name" yaml:"name"`
}

// Summary counts the titles seen at each pipeline stage.
type Summary struct {
	CatalogTitles    int `json:"catalogTitles" yaml:"catalogTitles"`
	CompatibleTitles int `json:"compatibleTitles" yaml:"compatibleTitles"`
	OwnedGames       int `json:"ownedGames" yaml:"ownedGames"`
	Candidates       int `json:"candidates" yaml:"candidates"`
	Recommended      int `json:"recommended" yaml:"recommended"`
}

// Recommendation is the result of one pipeline run.
type Recommendation struct {
	header.Header `json:",inline" yaml:",inline"`

	Profile         hardware.Profile       `json:"profile" yaml:"profile"`
	Limit           int                    `json:"limit" yaml:"limit"`
	Summary         Summary                `json:"summary" yaml:"summary"`
	Recommendations []RankedRecommendation `json:"recommendations" yaml:"recommendations"`
	Notice          string                 `json:"notice,omitempty" yaml:"notice,omitempty"`
}

// Names returns the recommended titles in rank order.
func (r *Recommendation) Names() []string {
	out := make([]string, len(r.Recommendations))
	for i, rr := range r.Recommendations {
		out[i] = rr.Name
	}
	return out
}

// String renders the numbered listing, or the notice when there is nothing
// to suggest.
func (r *Recommendation) String() string {
	if len(r.Recommendations) == 0 && r.Notice != "" {
		return r.Notice + "\n"
	}

	var b strings.Builder
	b.WriteString("Game suggestions:\n")
	for _, rr := range r.Recommendations {
		fmt.Fprintf(&b, "(%d) %s\n", rr.Rank, rr.Name)
	}
	return b.String()
}

// TitleList is a serializable list of catalog titles, optionally filtered
// for a hardware profile. Excluded holds the titles the profile cannot run.
type TitleList struct {
	header.Header `json:",inline" yaml:",inline"`

	Profile  *hardware.Profile `json:"profile,omitempty" yaml:"profile,omitempty"`
	Titles   []catalog.Title   `json:"titles" yaml:"titles"`
	Excluded []catalog.Title   `json:"excluded,omitempty" yaml:"excluded,omitempty"`
}

// NewTitleList returns a TitleList document for titles.
func NewTitleList(profile *hardware.Profile, titles []catalog.Title) *TitleList {
	if titles == nil {
		titles = []catalog.Title{}
	}
	tl := &TitleList{Profile: profile, Titles: titles}
	tl.Set(KindTitleList)
	return tl
}

// String renders one title per line with its requirements, followed by the
// excluded titles and the requirement each one misses.
func (tl *TitleList) String() string {
	var b strings.Builder
	for _, t := range tl.Titles {
		fmt.Fprintf(&b, "%s (cpu cores >= %d, gpu memory >= %g GB, ram >= %g GB)\n",
			t.Name, t.MinCPUCores, t.MinGPUMemoryGB, t.MinRAMGB)
	}
	if len(tl.Excluded) == 0 || tl.Profile == nil {
		return b.String()
	}

	fmt.Fprintf(&b, "\nExcluded for %s:\n", tl.Profile.String())
	for _, t := range tl.Excluded {
		fmt.Fprintf(&b, "%s (needs %s)\n", t.Name, strings.Join(shortfalls(*tl.Profile, t), ", "))
	}
	return b.String()
}

// shortfalls lists the requirements of t that profile does not meet.
func shortfalls(profile hardware.Profile, t catalog.Title) []string {
	var out []string
	if t.MinCPUCores > profile.CPUCores {
		out = append(out, fmt.Sprintf("cpu cores >= %d", t.MinCPUCores))
	}
	if t.MinGPUMemoryGB > profile.GPUMemoryGB {
		out = append(out, fmt.Sprintf("gpu memory >= %g GB", t.MinGPUMemoryGB))
	}
	if t.MinRAMGB > profile.TotalRAMGB {
		out = append(out, fmt.Sprintf("ram >= %g GB", t.MinRAMGB))
	}
	return out
}
