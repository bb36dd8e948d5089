/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package catalog

import (
	"github.com/NVIDIA/playfit/pkg/header"
)

// Kind is the document kind of a catalog file.
const Kind = "Catalog"

// Title is a candidate game together with the minimum hardware it needs.
// Memory requirements are expressed in GB.
type Title struct {
	Name           string  `json:"name" yaml:"name" validate:"required"`
	MinCPUCores    int     `json:"minCpuCores" yaml:"minCpuCores" validate:"gte=0"`
	MinGPUMemoryGB float64 `json:"minGpuMemoryGB" yaml:"minGpuMemoryGB" validate:"finite,gte=0"`
	MinRAMGB       float64 `json:"minRamGB" yaml:"minRamGB" validate:"finite,gte=0"`
}

// Document is the on-disk representation of a catalog.
type Document struct {
	header.Header `json:",inline" yaml:",inline"`

	Titles []Title `json:"titles" yaml:"titles" validate:"required,min=1,dive"`
}

// Catalog is an immutable, ordered set of titles with unique names.
type Catalog struct {
	titles []Title
	index  map[string]int
}

// Len returns the number of titles.
func (c *Catalog) Len() int {
	return len(c.titles)
}

// Titles returns a copy of the titles in catalog order.
func (c *Catalog) Titles() []Title {
	out := make([]Title, len(c.titles))
	copy(out, c.titles)
	return out
}
