/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package compat selects the catalog titles a machine can run.
//
// A title is compatible when each of its minimum requirements is less than or
// equal to the matching field of the hardware profile:
//
//	MinCPUCores    <= CPUCores
//	MinGPUMemoryGB <= GPUMemoryGB
//	MinRAMGB       <= TotalRAMGB
//
// All functions are pure and safe for concurrent use.
package compat

import (
	"github.com/NVIDIA/playfit/pkg/catalog"
	"github.com/NVIDIA/playfit/pkg/hardware"
)

// Compatible reports whether profile satisfies every minimum requirement of t.
func Compatible(profile hardware.Profile, t catalog.Title) bool {
	return t.MinCPUCores <= profile.CPUCores &&
		t.MinGPUMemoryGB <= profile.GPUMemoryGB &&
		t.MinRAMGB <= profile.TotalRAMGB
}

// Filter returns, in their original order, the titles profile can run.
// The input slice is not modified. A malformed profile is rejected with an
// INVALID_REQUEST error.
func Filter(profile hardware.Profile, titles []catalog.Title) ([]catalog.Title, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	out := make([]catalog.Title, 0, len(titles))
	for _, t := range titles {
		if Compatible(profile, t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Partition splits titles into those profile can run and those it cannot,
// each in original order.
func Partition(profile hardware.Profile, titles []catalog.Title) (compatible, incompatible []catalog.Title, err error) {
	if err := profile.Validate(); err != nil {
		return nil, nil, err
	}

	compatible = make([]catalog.Title, 0, len(titles))
	incompatible = make([]catalog.Title, 0)
	for _, t := range titles {
		if Compatible(profile, t) {
			compatible = append(compatible, t)
		} else {
			incompatible = append(incompatible, t)
		}
	}
	return compatible, incompatible, nil
}
