/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package gpu collects GPU memory by querying nvidia-smi.
//
// The query used is:
//
//	nvidia-smi --query-gpu=name,memory.total,uuid --format=csv,noheader,nounits
//
// which prints one "name, MiB, uuid" line per device. The device with the
// most memory is reported. When nvidia-smi is missing, fails, or reports no
// usable memory, the collector reports FallbackMemoryGB with
// memory_source=fallback rather than failing.
//
// Only NVIDIA devices are measured. AMD, Intel and integrated GPUs always
// report the fallback (hardware.gpu_fallback_memory_gb, 2 GB by default).
// Set that value, or pass --gpu-memory, to describe such machines.
package gpu

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/NVIDIA/playfit/pkg/defaults"
	"github.com/NVIDIA/playfit/pkg/measurement"
)

const (
	SourceSMI      = "nvidia-smi"
	SourceFallback = "fallback"

	mibPerGB = 1024
)

var (
	queryArgs = []string{"--query-gpu=name,memory.total,uuid", "--format=csv,noheader,nounits"}

	// Keys removed from readings before they leave the collector.
	filterOutKeys = []string{
		"*uuid",
	}
)

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Collector reports the memory of the largest local NVIDIA GPU.
type Collector struct {
	// SMIPath is the nvidia-smi binary; defaults.SMIPath when empty.
	SMIPath string

	// FallbackMemoryGB is reported when detection fails.
	FallbackMemoryGB float64

	// Run executes nvidia-smi; exec is used when nil.
	Run Runner
}

type device struct {
	name     string
	memoryGB float64
	uuid     string
}

// Collect returns a GPU measurement with a single "device" subtype.
func (c *Collector) Collect(ctx context.Context) (*measurement.Measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := c.SMIPath
	if path == "" {
		path = defaults.SMIPath
	}
	run := c.Run
	if run == nil {
		run = execRunner
	}

	var data map[string]measurement.Reading

	out, err := run(ctx, path, queryArgs...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Debug("nvidia-smi unavailable, using fallback gpu memory",
			slog.String("path", path),
			slog.String("error", err.Error()),
			slog.Float64("fallback_gb", c.FallbackMemoryGB))
		data = c.fallback("", 0)
	} else {
		devices, perr := parseDevices(out)
		best, ok := largest(devices)
		switch {
		case perr != nil:
			slog.Debug("unparseable nvidia-smi output, using fallback gpu memory", slog.String("error", perr.Error()))
			data = c.fallback("", 0)
		case !ok || best.memoryGB <= 0:
			data = c.fallback(best.name, len(devices))
		default:
			data = map[string]measurement.Reading{
				measurement.KeyName:     measurement.Str(best.name),
				measurement.KeyMemoryGB: measurement.Float(best.memoryGB),
				measurement.KeyCount:    measurement.Int(len(devices)),
				measurement.KeySource:   measurement.Str(SourceSMI),
				measurement.KeyUUID:     measurement.Str(best.uuid),
			}
		}
	}

	return &measurement.Measurement{
		Type: measurement.TypeGPU,
		Subtypes: []measurement.Subtype{
			{
				Name: measurement.SubtypeDevice,
				Data: measurement.FilterOut(data, filterOutKeys),
			},
		},
	}, nil
}

func (c *Collector) fallback(name string, count int) map[string]measurement.Reading {
	data := map[string]measurement.Reading{
		measurement.KeyMemoryGB: measurement.Float(c.FallbackMemoryGB),
		measurement.KeyCount:    measurement.Int(count),
		measurement.KeySource:   measurement.Str(SourceFallback),
	}
	if name != "" {
		data[measurement.KeyName] = measurement.Str(name)
	}
	return data
}

// parseDevices parses nvidia-smi CSV output. Memory values that are not
// numeric (e.g. "[N/A]") are read as zero.
func parseDevices(out []byte) ([]device, error) {
	var devices []device

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			return nil, fmt.Errorf("unexpected nvidia-smi line %q", line)
		}

		d := device{name: strings.TrimSpace(fields[0])}
		if mib, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64); err == nil && mib > 0 {
			d.memoryGB = mib / mibPerGB
		}
		if len(fields) > 2 {
			d.uuid = strings.TrimSpace(fields[2])
		}
		devices = append(devices, d)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read nvidia-smi output: %w", err)
	}
	return devices, nil
}

// largest returns the device with the most memory; the first wins ties.
func largest(devices []device) (device, bool) {
	if len(devices) == 0 {
		return device{}, false
	}
	best := devices[0]
	for _, d := range devices[1:] {
		if d.memoryGB > best.memoryGB {
			best = d
		}
	}
	return best, true
}
