/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package measurement

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Type identifies the hardware area a measurement describes.
type Type string

const (
	TypeCPU    Type = "CPU"
	TypeGPU    Type = "GPU"
	TypeMemory Type = "Memory"
)

// Types lists every supported measurement type.
var Types = []Type{TypeCPU, TypeGPU, TypeMemory}

// ParseType returns the Type matching s and whether it is supported.
func ParseType(s string) (Type, bool) {
	for _, t := range Types {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Measurement groups the readings a collector produced for one Type.
type Measurement struct {
	Type     Type      `json:"type" yaml:"type"`
	Subtypes []Subtype `json:"subtypes" yaml:"subtypes"`
}

// Subtype is a named set of readings within a measurement.
type Subtype struct {
	Name string             `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	Data map[string]Reading `json:"data" yaml:"data"`
}

// GetSubtype returns the subtype with the given name, or nil.
func (m *Measurement) GetSubtype(name string) *Subtype {
	if m == nil {
		return nil
	}
	for i := range m.Subtypes {
		if m.Subtypes[i].Name == name {
			return &m.Subtypes[i]
		}
	}
	return nil
}

// Reading is a single scalar value: int, float64, string or bool.
type Reading struct {
	v any
}

// Int returns an integer reading.
func Int(v int) Reading { return Reading{v: v} }

// Float returns a floating point reading.
func Float(v float64) Reading { return Reading{v: v} }

// Str returns a string reading.
func Str(v string) Reading { return Reading{v: v} }

// Bool returns a boolean reading.
func Bool(v bool) Reading { return Reading{v: v} }

// Any returns the underlying value.
func (r Reading) Any() any {
	return r.v
}

// String formats the value for display and path extraction.
func (r Reading) String() string {
	switch v := r.v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Float64 converts numeric readings (and numeric strings) to float64.
func (r Reading) Float64() (float64, error) {
	switch v := r.v.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("reading %q is not numeric: %w", v, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("reading of type %T is not numeric", r.v)
	}
}

// MarshalJSON encodes the underlying value.
func (r Reading) MarshalJSON() ([]byte, error) {
	return marshalJSONValue(r.v)
}

// UnmarshalJSON decodes a scalar, keeping integers as int.
func (r *Reading) UnmarshalJSON(data []byte) error {
	v, err := unmarshalJSONValue(data)
	if err != nil {
		return err
	}
	r.v = v
	return nil
}

// MarshalYAML encodes the underlying value.
func (r Reading) MarshalYAML() (any, error) {
	return r.v, nil
}

// UnmarshalYAML decodes a scalar node according to its resolved tag.
func (r *Reading) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("reading must be a scalar, got yaml kind %d", node.Kind)
	}

	switch node.Tag {
	case "!!int":
		var i int
		if err := node.Decode(&i); err != nil {
			return err
		}
		r.v = i
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}
		r.v = f
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		r.v = b
	case "!!null":
		r.v = nil
	default:
		r.v = node.Value
	}
	return nil
}
