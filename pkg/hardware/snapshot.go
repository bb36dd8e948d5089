/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package hardware

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NVIDIA/playfit/pkg/collector"
	pferrors "github.com/NVIDIA/playfit/pkg/errors"
	"github.com/NVIDIA/playfit/pkg/measurement"
	"github.com/NVIDIA/playfit/pkg/snapshotter"
)

// ProfileFromSnapshot extracts a Profile from the CPU, GPU and Memory
// measurements of snap. Each of the three readings must be present.
func ProfileFromSnapshot(snap *snapshotter.Snapshot) (Profile, error) {
	if snap == nil {
		return Profile{}, pferrors.New(pferrors.ErrCodeInvalidRequest, "snapshot is nil")
	}

	cores, err := reading(snap, measurement.TypeCPU, measurement.SubtypeProcessor, measurement.KeyCores)
	if err != nil {
		return Profile{}, err
	}
	gpu, err := reading(snap, measurement.TypeGPU, measurement.SubtypeDevice, measurement.KeyMemoryGB)
	if err != nil {
		return Profile{}, err
	}
	ram, err := reading(snap, measurement.TypeMemory, measurement.SubtypeMemory, measurement.KeyTotalGB)
	if err != nil {
		return Profile{}, err
	}

	p := Profile{
		CPUCores:    int(cores),
		GPUMemoryGB: gpu,
		TotalRAMGB:  ram,
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func reading(snap *snapshotter.Snapshot, t measurement.Type, subtype, key string) (float64, error) {
	path := fmt.Sprintf("%s.%s.%s", t, subtype, key)

	m := snap.Get(t)
	st := m.GetSubtype(subtype)
	if st == nil {
		return 0, pferrors.NewWithContext(pferrors.ErrCodeInvalidRequest, "snapshot is missing a hardware reading",
			map[string]any{"reading": path})
	}
	r, ok := st.Data[key]
	if !ok {
		return 0, pferrors.NewWithContext(pferrors.ErrCodeInvalidRequest, "snapshot is missing a hardware reading",
			map[string]any{"reading": path})
	}
	v, err := r.Float64()
	if err != nil {
		return 0, pferrors.WrapWithContext(pferrors.ErrCodeInvalidRequest, "snapshot reading is not numeric", err,
			map[string]any{"reading": path})
	}
	return v, nil
}

// Probe collects a snapshot of the local machine with factory (the default
// factory when nil) and returns its Profile.
func Probe(ctx context.Context, factory collector.Factory) (Profile, error) {
	sn := &snapshotter.NodeSnapshotter{Factory: factory}
	snap, err := sn.Collect(ctx)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to probe hardware: %w", err)
	}

	p, err := ProfileFromSnapshot(snap)
	if err != nil {
		return Profile{}, err
	}

	slog.Debug("probed hardware",
		slog.Int("cpu_cores", p.CPUCores),
		slog.Float64("gpu_memory_gb", p.GPUMemoryGB),
		slog.Float64("total_ram_gb", p.TotalRAMGB))
	return p, nil
}
