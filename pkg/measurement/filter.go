/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package measurement

import "strings"

// FilterOut returns a copy of readings without the keys matching any of
// patterns. Patterns support a leading and/or trailing wildcard:
//   - "uuid" matches the key exactly
//   - "gpu.*" matches keys starting with "gpu."
//   - "*.uuid" matches keys ending with ".uuid"
//   - "*serial*" matches keys containing "serial"
func FilterOut(readings map[string]Reading, patterns []string) map[string]Reading {
	result := make(map[string]Reading, len(readings))
	for key, value := range readings {
		if matchesAny(key, patterns) {
			continue
		}
		result[key] = value
	}
	return result
}

func matchesAny(key string, patterns []string) bool {
	for _, p := range patterns {
		if matchesPattern(key, p) {
			return true
		}
	}
	return false
}

// matchesPattern reports whether key matches a single wildcard pattern.
// Wildcards in the middle of a pattern are not supported and the pattern
// is then compared literally.
func matchesPattern(key, pattern string) bool {
	leading := strings.HasPrefix(pattern, "*")
	trailing := strings.HasSuffix(pattern, "*")
	core := strings.Trim(pattern, "*")

	switch {
	case !strings.Contains(pattern, "*"):
		return key == pattern
	case leading && trailing:
		return strings.Contains(key, core)
	case leading:
		return strings.HasSuffix(key, core)
	case trailing:
		return strings.HasPrefix(key, core)
	default:
		return key == pattern
	}
}
