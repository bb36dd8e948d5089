/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package snapshotter

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/NVIDIA/playfit/pkg/collector"
	"github.com/NVIDIA/playfit/pkg/measurement"
	"github.com/NVIDIA/playfit/pkg/serializer"
)

type fakeFactory struct {
	cpu, gpu, mem collector.Collector
}

func (f *fakeFactory) CreateCPUCollector() collector.Collector    { return f.cpu }
func (f *fakeFactory) CreateGPUCollector() collector.Collector    { return f.gpu }
func (f *fakeFactory) CreateMemoryCollector() collector.Collector { return f.mem }

func fixed(t measurement.Type, subtype, key string, r measurement.Reading, delay time.Duration) collector.Collector {
	return collector.CollectorFunc(func(ctx context.Context) (*measurement.Measurement, error) {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return &measurement.Measurement{
			Type:     t,
			Subtypes: []measurement.Subtype{{Name: subtype, Data: map[string]measurement.Reading{key: r}}},
		}, nil
	})
}

func testFactory() *fakeFactory {
	return &fakeFactory{
		// memory finishes first, cpu last
		cpu: fixed(measurement.TypeCPU, measurement.SubtypeProcessor, measurement.KeyCores, measurement.Int(8), 20*time.Millisecond),
		gpu: fixed(measurement.TypeGPU, measurement.SubtypeDevice, measurement.KeyMemoryGB, measurement.Float(12), 10*time.Millisecond),
		mem: fixed(measurement.TypeMemory, measurement.SubtypeMemory, measurement.KeyTotalGB, measurement.Float(31.9), 0),
	}
}

func TestNodeSnapshotter_Collect(t *testing.T) {
	sn := &NodeSnapshotter{Version: "v1.2.3", Factory: testFactory()}

	snap, err := sn.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if snap.Kind != Kind {
		t.Errorf("Kind = %q, want %q", snap.Kind, Kind)
	}
	if snap.APIVersion != "snapshot.playfit.nvidia.com/v1" {
		t.Errorf("APIVersion = %q", snap.APIVersion)
	}
	if snap.Metadata["snapshot-version"] != "v1.2.3" {
		t.Errorf("snapshot-version = %q", snap.Metadata["snapshot-version"])
	}

	var types []measurement.Type
	for _, m := range snap.Measurements {
		types = append(types, m.Type)
	}
	want := []measurement.Type{measurement.TypeCPU, measurement.TypeGPU, measurement.TypeMemory}
	if len(types) != len(want) {
		t.Fatalf("types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("types = %v, want %v", types, want)
			break
		}
	}

	if snap.Get(measurement.TypeGPU) == nil {
		t.Error("Get(GPU) = nil")
	}
}

func TestNodeSnapshotter_CollectorError(t *testing.T) {
	f := testFactory()
	f.gpu = collector.CollectorFunc(func(context.Context) (*measurement.Measurement, error) {
		return nil, errors.New("driver crashed")
	})

	_, err := (&NodeSnapshotter{Factory: f}).Collect(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestNodeSnapshotter_MeasureAndReadBack(t *testing.T) {
	for _, ext := range []string{"json", "yaml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "snapshot."+ext)

			w, err := serializer.NewFileWriterOrStdout(serializer.FormatFromPath(path), path)
			if err != nil {
				t.Fatal(err)
			}
			sn := &NodeSnapshotter{Factory: testFactory(), Serializer: w}
			if err := sn.Measure(context.Background()); err != nil {
				t.Fatalf("Measure() error = %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatal(err)
			}

			snap, err := SnapshotFromFile(path)
			if err != nil {
				t.Fatalf("SnapshotFromFile() error = %v", err)
			}
			if len(snap.Measurements) != 3 {
				t.Fatalf("measurements = %d, want 3", len(snap.Measurements))
			}
			cores := snap.Get(measurement.TypeCPU).GetSubtype(measurement.SubtypeProcessor).Data[measurement.KeyCores]
			if cores.Any() != 8 {
				t.Errorf("cores = %#v, want int 8", cores.Any())
			}
		})
	}
}

func TestNodeSnapshotter_MeasureDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	sn := &NodeSnapshotter{Factory: testFactory(), Serializer: serializer.NewWriter(serializer.FormatJSON, &buf)}
	if err := sn.Measure(context.Background()); err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"kind": "Snapshot"`)) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestSnapshotFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := SnapshotFromFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := SnapshotFromFile(bad); err == nil {
		t.Error("expected error for malformed file")
	}
}
