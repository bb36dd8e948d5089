/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package measurement

// Subtype names and reading keys shared by the collectors and the
// consumers of their snapshots.
const (
	SubtypeProcessor = "processor"
	SubtypeDevice    = "device"
	SubtypeMemory    = "memory"

	KeyCores    = "cores"
	KeyThreads  = "threads"
	KeyModel    = "model"
	KeyName     = "name"
	KeyUUID     = "uuid"
	KeyCount    = "count"
	KeyMemoryGB = "memory_gb"
	KeySource   = "memory_source"
	KeyTotal    = "total_bytes"
	KeyTotalGB  = "total_gb"
)
