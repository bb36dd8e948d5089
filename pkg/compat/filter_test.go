/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package compat

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/NVIDIA/playfit/pkg/catalog"
	pferrors "github.com/NVIDIA/playfit/pkg/errors"
	"github.com/NVIDIA/playfit/pkg/hardware"
)

func names(titles []catalog.Title) []string {
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		out = append(out, t.Name)
	}
	return out
}

func TestFilter_KeepsOnlyFittingTitles(t *testing.T) {
	profile := hardware.Profile{CPUCores: 2, GPUMemoryGB: 0.5, TotalRAMGB: 4}
	titles := []catalog.Title{
		{Name: "Half-Life 2", MinCPUCores: 1, MinGPUMemoryGB: 0.032, MinRAMGB: 0.256},
		{Name: "Eden", MinCPUCores: 4, MinGPUMemoryGB: 2, MinRAMGB: 8},
	}

	got, err := Filter(profile, titles)
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	if want := []string{"Half-Life 2"}; !reflect.DeepEqual(names(got), want) {
		t.Errorf("Filter() = %v, want %v", names(got), want)
	}
}

func TestCompatible(t *testing.T) {
	profile := hardware.Profile{CPUCores: 4, GPUMemoryGB: 2, TotalRAMGB: 8}

	tests := []struct {
		name  string
		title catalog.Title
		want  bool
	}{
		{"zero requirements", catalog.Title{Name: "a"}, true},
		{"exactly equal", catalog.Title{Name: "b", MinCPUCores: 4, MinGPUMemoryGB: 2, MinRAMGB: 8}, true},
		{"too many cores", catalog.Title{Name: "c", MinCPUCores: 5}, false},
		{"too much gpu memory", catalog.Title{Name: "d", MinGPUMemoryGB: 2.001}, false},
		{"too much ram", catalog.Title{Name: "e", MinRAMGB: 8.5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compatible(profile, tt.title); got != tt.want {
				t.Errorf("Compatible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_InvalidProfile(t *testing.T) {
	titles := []catalog.Title{{Name: "Portal"}}

	tests := []struct {
		name    string
		profile hardware.Profile
	}{
		{"negative cores", hardware.Profile{CPUCores: -1}},
		{"negative gpu", hardware.Profile{GPUMemoryGB: -0.1}},
		{"nan ram", hardware.Profile{TotalRAMGB: math.NaN()}},
		{"infinite gpu", hardware.Profile{GPUMemoryGB: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Filter(tt.profile, titles)
			if !pferrors.IsCode(err, pferrors.ErrCodeInvalidRequest) {
				t.Errorf("Filter() error = %v, want INVALID_REQUEST", err)
			}
			_, _, err = Partition(tt.profile, titles)
			if !pferrors.IsCode(err, pferrors.ErrCodeInvalidRequest) {
				t.Errorf("Partition() error = %v, want INVALID_REQUEST", err)
			}
		})
	}
}

func TestFilter_Properties(t *testing.T) {
	c, err := catalog.Load(context.Background())
	if err != nil {
		t.Fatalf("catalog.Load() error = %v", err)
	}
	titles := c.Titles()
	before := c.Titles()

	profiles := []hardware.Profile{
		{},
		{CPUCores: 1, GPUMemoryGB: 0.064, TotalRAMGB: 0.5},
		{CPUCores: 2, GPUMemoryGB: 0.5, TotalRAMGB: 4},
		{CPUCores: 4, GPUMemoryGB: 2, TotalRAMGB: 8},
		{CPUCores: 16, GPUMemoryGB: 24, TotalRAMGB: 64},
	}

	for _, p := range profiles {
		t.Run(p.String(), func(t *testing.T) {
			got, err := Filter(p, titles)
			if err != nil {
				t.Fatalf("Filter() error = %v", err)
			}

			// subsequence in original order
			j := 0
			for _, g := range got {
				for j < len(titles) && titles[j] != g {
					j++
				}
				if j == len(titles) {
					t.Fatalf("%q is out of order or not in the catalog", g.Name)
				}
				j++
				if !Compatible(p, g) {
					t.Errorf("%q does not satisfy the profile", g.Name)
				}
			}

			again, err := Filter(p, got)
			if err != nil {
				t.Fatalf("Filter() error = %v", err)
			}
			if !reflect.DeepEqual(again, got) {
				t.Error("Filter is not idempotent")
			}

			compatible, incompatible, err := Partition(p, titles)
			if err != nil {
				t.Fatalf("Partition() error = %v", err)
			}
			if !reflect.DeepEqual(compatible, got) {
				t.Error("Partition compatible set differs from Filter")
			}
			if len(compatible)+len(incompatible) != len(titles) {
				t.Errorf("Partition lost titles: %d + %d != %d", len(compatible), len(incompatible), len(titles))
			}
		})
	}

	if !reflect.DeepEqual(titles, before) {
		t.Error("Filter modified its input")
	}
}

func TestFilter_FullCatalogEverythingFits(t *testing.T) {
	c, err := catalog.Load(context.Background())
	if err != nil {
		t.Fatalf("catalog.Load() error = %v", err)
	}

	got, err := Filter(hardware.Profile{CPUCores: 64, GPUMemoryGB: 80, TotalRAMGB: 512}, c.Titles())
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	if len(got) != c.Len() {
		t.Errorf("len(Filter()) = %d, want %d", len(got), c.Len())
	}
}
