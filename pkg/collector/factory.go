/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package collector

import (
	"github.com/NVIDIA/playfit/pkg/collector/cpu"
	"github.com/NVIDIA/playfit/pkg/collector/gpu"
	"github.com/NVIDIA/playfit/pkg/collector/memory"
	"github.com/NVIDIA/playfit/pkg/defaults"
)

// Factory creates collectors with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	CreateCPUCollector() Collector
	CreateGPUCollector() Collector
	CreateMemoryCollector() Collector
}

// DefaultFactory creates collectors with production dependencies.
type DefaultFactory struct {
	// SMIPath is the nvidia-smi binary to run.
	SMIPath string

	// GPUFallbackMemoryGB is reported when GPU memory cannot be detected.
	GPUFallbackMemoryGB float64
}

// NewDefaultFactory creates a factory with default settings.
func NewDefaultFactory() *DefaultFactory {
	return &DefaultFactory{
		SMIPath:             defaults.SMIPath,
		GPUFallbackMemoryGB: defaults.GPUFallbackMemoryGB,
	}
}

// CreateCPUCollector creates a CPU collector.
func (f *DefaultFactory) CreateCPUCollector() Collector {
	return &cpu.Collector{}
}

// CreateMemoryCollector creates a memory collector.
func (f *DefaultFactory) CreateMemoryCollector() Collector {
	return &memory.Collector{}
}

// CreateGPUCollector creates a GPU collector backed by nvidia-smi.
func (f *DefaultFactory) CreateGPUCollector() Collector {
	return &gpu.Collector{
		SMIPath:          f.SMIPath,
		FallbackMemoryGB: f.GPUFallbackMemoryGB,
	}
}
