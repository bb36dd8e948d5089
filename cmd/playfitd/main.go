/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"log"

	"github.com/NVIDIA/playfit/pkg/api"
)

func main() {
	if err := api.Serve(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
