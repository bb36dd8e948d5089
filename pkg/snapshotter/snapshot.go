/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package snapshotter

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/playfit/pkg/collector"
	"github.com/NVIDIA/playfit/pkg/defaults"
	"github.com/NVIDIA/playfit/pkg/measurement"
	"github.com/NVIDIA/playfit/pkg/serializer"
)

// NodeSnapshotter collects hardware measurements from the current machine.
// Collectors run in parallel; the snapshot lists measurements in a fixed
// order (CPU, GPU, Memory) regardless of completion order.
type NodeSnapshotter struct {
	// Version is recorded in the snapshot metadata.
	Version string

	// Factory is the collector factory to use. If nil, the default factory is used.
	Factory collector.Factory

	// Serializer is the serializer to use for output. If nil, a default stdout JSON serializer is used.
	Serializer serializer.Serializer
}

type namedCollector struct {
	name   string
	create func() collector.Collector
}

// Collect runs every collector and returns the assembled snapshot.
// If any collector fails, the whole collection fails.
func (n *NodeSnapshotter) Collect(ctx context.Context) (*Snapshot, error) {
	factory := n.Factory
	if factory == nil {
		factory = collector.NewDefaultFactory()
	}

	slog.Debug("starting hardware snapshot")

	start := time.Now()
	defer func() {
		snapshotCollectionDuration.Observe(time.Since(start).Seconds())
	}()

	collectors := []namedCollector{
		{"cpu", factory.CreateCPUCollector},
		{"gpu", factory.CreateGPUCollector},
		{"memory", factory.CreateMemoryCollector},
	}

	var mu sync.Mutex
	snap := NewSnapshot()
	g, gctx := errgroup.WithContext(ctx)

	for _, nc := range collectors {
		g.Go(func() error {
			collectorStart := time.Now()
			defer func() {
				snapshotCollectorDuration.WithLabelValues(nc.name).Observe(time.Since(collectorStart).Seconds())
			}()

			cctx, cancel := context.WithTimeout(gctx, defaults.CollectorTimeout)
			defer cancel()

			slog.Debug("collecting", slog.String("collector", nc.name))
			m, err := nc.create().Collect(cctx)
			if err != nil {
				slog.Error("collector failed", slog.String("collector", nc.name), slog.String("error", err.Error()))
				return fmt.Errorf("failed to collect %s info: %w", nc.name, err)
			}
			if m == nil {
				return fmt.Errorf("%s collector returned no measurement", nc.name)
			}

			mu.Lock()
			snap.Measurements = append(snap.Measurements, m)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		snapshotCollectionTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	sort.SliceStable(snap.Measurements, func(i, j int) bool {
		return typeOrder(snap.Measurements[i].Type) < typeOrder(snap.Measurements[j].Type)
	})

	snap.Set(Kind)
	if n.Version != "" {
		snap.Metadata["snapshot-version"] = n.Version
	}

	snapshotCollectionTotal.WithLabelValues("success").Inc()
	slog.Debug("snapshot collection complete", slog.Int("measurements", len(snap.Measurements)))
	return snap, nil
}

func typeOrder(t measurement.Type) int {
	for i, known := range measurement.Types {
		if known == t {
			return i
		}
	}
	return len(measurement.Types)
}

// Measure collects a snapshot and serializes it with the configured Serializer.
func (n *NodeSnapshotter) Measure(ctx context.Context) error {
	snap, err := n.Collect(ctx)
	if err != nil {
		return err
	}

	if n.Serializer == nil {
		n.Serializer = serializer.NewStdoutWriter(serializer.FormatJSON)
	}

	if err := n.Serializer.Serialize(ctx, snap); err != nil {
		slog.Error("failed to serialize", slog.String("error", err.Error()))
		return fmt.Errorf("failed to serialize: %w", err)
	}

	return nil
}

// SnapshotFromFile loads a Snapshot from the specified file path.
func SnapshotFromFile(path string) (*Snapshot, error) {
	fileFormat := serializer.FormatFromPath(path)
	slog.Debug("determined snapshot file format",
		slog.String("path", path),
		slog.String("format", string(fileFormat)),
	)

	ser, err := serializer.NewFileReader(fileFormat, path)
	if err != nil {
		return nil, fmt.Errorf("failed to create serializer for %q: %w", path, err)
	}
	defer func() {
		if closeErr := ser.Close(); closeErr != nil {
			slog.Warn("failed to close serializer", "error", closeErr)
		}
	}()

	var snap Snapshot
	if err := ser.Deserialize(&snap); err != nil {
		return nil, fmt.Errorf("failed to deserialize snapshot from %q: %w", path, err)
	}

	slog.Debug("successfully loaded snapshot from file",
		slog.String("path", path),
		slog.String("kind", snap.Kind),
		slog.String("apiVersion", snap.APIVersion),
		slog.Int("measurements", len(snap.Measurements)),
	)

	return &snap, nil
}
