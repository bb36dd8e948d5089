/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package memory collects the total physical memory of the machine.
package memory

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/NVIDIA/playfit/pkg/measurement"
)

const bytesPerGB = 1 << 30

// replaced in tests
var virtualMemoryFn = mem.VirtualMemoryWithContext

// Collector reads physical memory size through gopsutil.
type Collector struct{}

// Collect returns a Memory measurement with total size in bytes and in GB
// (1 GB = 1024^3 bytes).
func (c *Collector) Collect(ctx context.Context) (*measurement.Measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vm, err := virtualMemoryFn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read virtual memory: %w", err)
	}

	return &measurement.Measurement{
		Type: measurement.TypeMemory,
		Subtypes: []measurement.Subtype{
			{
				Name: measurement.SubtypeMemory,
				Data: map[string]measurement.Reading{
					measurement.KeyTotal:   measurement.Int(int(vm.Total)),
					measurement.KeyTotalGB: measurement.Float(float64(vm.Total) / bytesPerGB),
				},
			},
		},
	}, nil
}
