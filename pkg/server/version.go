/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"net/http"
	"strings"
)

const (
	// DefaultAPIVersion is served when the client asks for no specific version.
	DefaultAPIVersion = "v1"

	// vendorMediaPrefix starts a versioned media type such as
	// application/vnd.nvidia.playfit.v1+json.
	vendorMediaPrefix = "application/vnd.nvidia.playfit."

	// HeaderAPIVersion reports the version that served a response.
	HeaderAPIVersion = "X-API-Version"
)

var supportedAPIVersions = map[string]struct{}{
	"v1": {},
}

// negotiateAPIVersion returns the API version requested in the Accept
// header, or DefaultAPIVersion when none or an unsupported one is asked for.
func negotiateAPIVersion(r *http.Request) string {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		media := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		rest, ok := strings.CutPrefix(media, vendorMediaPrefix)
		if !ok {
			continue
		}
		v, _, _ := strings.Cut(rest, "+")
		if isValidAPIVersion(v) {
			return v
		}
	}
	return DefaultAPIVersion
}

func isValidAPIVersion(v string) bool {
	_, ok := supportedAPIVersions[v]
	return ok
}
