/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package hardware describes the capability of the machine recommendations
// are made for, and derives it from a hardware snapshot.
package hardware

import (
	"fmt"

	pferrors "github.com/NVIDIA/playfit/pkg/errors"
	"github.com/NVIDIA/playfit/pkg/validation"
)

// Profile is the hardware capability compared against title requirements.
// Memory sizes are in GB.
type Profile struct {
	CPUCores    int     `json:"cpuCores" yaml:"cpuCores" validate:"gte=0"`
	GPUMemoryGB float64 `json:"gpuMemoryGB" yaml:"gpuMemoryGB" validate:"finite,gte=0"`
	TotalRAMGB  float64 `json:"totalRamGB" yaml:"totalRamGB" validate:"finite,gte=0"`
}

// Validate returns an INVALID_REQUEST error when any field is negative,
// NaN or infinite.
func (p Profile) Validate() error {
	return validation.Struct(p, pferrors.ErrCodeInvalidRequest, "invalid hardware profile")
}

// String implements fmt.Stringer.
func (p Profile) String() string {
	return fmt.Sprintf("%d CPU cores, %.3g GB GPU memory, %.3g GB RAM", p.CPUCores, p.GPUMemoryGB, p.TotalRAMGB)
}

// Override replaces fields of p with the non-nil values provided.
func (p Profile) Override(cpuCores *int, gpuMemoryGB, totalRAMGB *float64) Profile {
	if cpuCores != nil {
		p.CPUCores = *cpuCores
	}
	if gpuMemoryGB != nil {
		p.GPUMemoryGB = *gpuMemoryGB
	}
	if totalRAMGB != nil {
		p.TotalRAMGB = *totalRAMGB
	}
	return p
}
