/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package measurement

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

func marshalJSONValue(v any) ([]byte, error) {
	return json.Marshal(v)
}

func unmarshalJSONValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode reading: %w", err)
	}

	switch v := raw.(type) {
	case json.Number:
		if i, err := strconv.Atoi(v.String()); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid numeric reading %q: %w", v, err)
		}
		return f, nil
	case string, bool, nil:
		return v, nil
	default:
		return nil, fmt.Errorf("reading must be a scalar, got %T", raw)
	}
}
