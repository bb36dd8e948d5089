/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package snapshotter

import (
	"context"

	"github.com/NVIDIA/playfit/pkg/header"
	"github.com/NVIDIA/playfit/pkg/measurement"
)

// Kind is the document kind of a snapshot.
const Kind = "Snapshot"

// Snapshotter is the interface that wraps the Measure method.
// Measure collects a snapshot and writes it out.
type Snapshotter interface {
	Measure(ctx context.Context) error
}

// Snapshot is the hardware state of a machine at one point in time.
type Snapshot struct {
	header.Header `json:",inline" yaml:",inline"`

	Measurements []*measurement.Measurement `json:"measurements" yaml:"measurements"`
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Measurements: make([]*measurement.Measurement, 0),
	}
}

// Get returns the measurement of type t, or nil.
func (s *Snapshot) Get(t measurement.Type) *measurement.Measurement {
	for _, m := range s.Measurements {
		if m != nil && m.Type == t {
			return m
		}
	}
	return nil
}
