/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package serializer

// StdoutURI is the special output path indicating stdout.
const StdoutURI = "-"

// Format is an output or input encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"

	// FormatText renders values implementing fmt.Stringer as plain text and
	// falls back to the table layout for everything else.
	FormatText Format = "text"
)

var supportedFormats = []Format{FormatJSON, FormatYAML, FormatTable, FormatText}

// IsUnknown reports whether f is not a supported format.
func (f Format) IsUnknown() bool {
	for _, s := range supportedFormats {
		if f == s {
			return false
		}
	}
	return true
}

// SupportedFormats returns the names of all supported formats.
func SupportedFormats() []string {
	out := make([]string, 0, len(supportedFormats))
	for _, f := range supportedFormats {
		out = append(out, string(f))
	}
	return out
}
