/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package collector defines the hardware collectors used to build a
// snapshot of the local machine.
//
// Each collector returns one measurement:
//
//	CPU     processor: cores, threads, model
//	Memory  memory:    total_bytes, total_gb
//	GPU     device:    name, memory_gb, count, memory_source
//
// Collectors honor context cancellation. The GPU collector never fails on a
// missing or broken nvidia-smi; it reports the configured fallback memory
// instead.
package collector

import (
	"context"

	"github.com/NVIDIA/playfit/pkg/measurement"
)

// Collector gathers one measurement from the local machine.
type Collector interface {
	Collect(ctx context.Context) (*measurement.Measurement, error)
}

// CollectorFunc adapts a function to the Collector interface.
type CollectorFunc func(ctx context.Context) (*measurement.Measurement, error)

// Collect implements Collector.
func (f CollectorFunc) Collect(ctx context.Context) (*measurement.Measurement, error) {
	return f(ctx)
}
