/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package measurement

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in     string
		want   Type
		wantOK bool
	}{
		{"CPU", TypeCPU, true},
		{"GPU", TypeGPU, true},
		{"Memory", TypeMemory, true},
		{"gpu", "", false},
		{"K8s", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseType(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReading_String(t *testing.T) {
	tests := []struct {
		name string
		r    Reading
		want string
	}{
		{"int", Int(8), "8"},
		{"float", Float(0.128), "0.128"},
		{"whole float", Float(2), "2"},
		{"string", Str("GT 740"), "GT 740"},
		{"bool", Bool(true), "true"},
		{"zero value", Reading{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.String())
		})
	}
}

func TestReading_Float64(t *testing.T) {
	f, err := Int(4).Float64()
	require.NoError(t, err)
	assert.InDelta(t, 4.0, f, 1e-9)

	f, err = Str("15.5").Float64()
	require.NoError(t, err)
	assert.InDelta(t, 15.5, f, 1e-9)

	_, err = Str("lots").Float64()
	assert.Error(t, err)

	_, err = Bool(true).Float64()
	assert.Error(t, err)
}

func TestMeasurement_JSONRoundTrip(t *testing.T) {
	m := &Measurement{
		Type: TypeGPU,
		Subtypes: []Subtype{{
			Name: "device",
			Data: map[string]Reading{
				"model":     Str("GT 740"),
				"memory_gb": Float(1.5),
				"count":     Int(1),
				"fallback":  Bool(false),
			},
		}},
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var got Measurement
	require.NoError(t, json.Unmarshal(data, &got))

	dev := got.GetSubtype("device")
	require.NotNil(t, dev)
	assert.Equal(t, "GT 740", dev.Data["model"].Any())
	assert.Equal(t, 1.5, dev.Data["memory_gb"].Any())
	assert.Equal(t, 1, dev.Data["count"].Any())
	assert.Equal(t, false, dev.Data["fallback"].Any())
}

func TestMeasurement_YAMLDecode(t *testing.T) {
	doc := `
type: CPU
subtypes:
  - subtype: processor
    data:
      cores: 4
      threads: 8
      model: Intel(R) Core(TM) i5
      ratio: 0.5
`
	var m Measurement
	require.NoError(t, yaml.Unmarshal([]byte(doc), &m))

	proc := m.GetSubtype("processor")
	require.NotNil(t, proc)
	assert.Equal(t, 4, proc.Data["cores"].Any())
	assert.Equal(t, 0.5, proc.Data["ratio"].Any())
	assert.Equal(t, "Intel(R) Core(TM) i5", proc.Data["model"].Any())
	assert.Nil(t, m.GetSubtype("missing"))
}

func TestReading_UnmarshalJSONRejectsObjects(t *testing.T) {
	var r Reading
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &r))
}
