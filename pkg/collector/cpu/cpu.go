/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package cpu collects processor core counts and model name.
package cpu

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/NVIDIA/playfit/pkg/measurement"
)

// replaced in tests
var (
	countsFn = cpu.CountsWithContext
	infoFn   = cpu.InfoWithContext
)

// Collector reads processor information through gopsutil.
type Collector struct{}

// Collect returns a CPU measurement with a single "processor" subtype.
// When the physical core count is unavailable (some virtual machines), the
// logical count is reported as cores.
func (c *Collector) Collect(ctx context.Context) (*measurement.Measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	threads, err := countsFn(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to count logical CPUs: %w", err)
	}

	cores, err := countsFn(ctx, false)
	if err != nil || cores <= 0 {
		slog.Debug("physical core count unavailable, using logical count",
			slog.Int("threads", threads), slog.Any("error", err))
		cores = threads
	}

	data := map[string]measurement.Reading{
		measurement.KeyCores:   measurement.Int(cores),
		measurement.KeyThreads: measurement.Int(threads),
	}

	// the model name is informational only
	if infos, err := infoFn(ctx); err == nil && len(infos) > 0 {
		data[measurement.KeyModel] = measurement.Str(infos[0].ModelName)
	} else if err != nil {
		slog.Debug("cpu model unavailable", slog.String("error", err.Error()))
	}

	return &measurement.Measurement{
		Type: measurement.TypeCPU,
		Subtypes: []measurement.Subtype{
			{Name: measurement.SubtypeProcessor, Data: data},
		},
	}, nil
}
