/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	pferrors "github.com/NVIDIA/playfit/pkg/errors"
	"github.com/NVIDIA/playfit/pkg/serializer"
)

// WriteError writes an ErrorResponse with the given status.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code pferrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID := RequestIDFromContext(r.Context())
	if requestID == "" {
		requestID = uuid.New().String()
	}

	errResp := ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	}

	serializer.RespondJSON(w, statusCode, errResp)
}

// WriteErrorFromErr writes err as an ErrorResponse. A StructuredError picks
// the status, code, message and details; any other error is reported as
// INTERNAL with fallbackMessage. The cause text is added as details["error"].
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string, extraDetails map[string]any) {
	var se *pferrors.StructuredError
	if errors.As(err, &se) {
		details := mergeDetails(se.Context, extraDetails)
		if se.Cause != nil {
			details = mergeDetails(details, map[string]any{"error": se.Cause.Error()})
		}
		WriteError(w, r, HTTPStatusFromCode(se.Code), se.Code, se.Message, retryableFromCode(se.Code), details)
		return
	}

	details := mergeDetails(extraDetails, map[string]any{"error": err.Error()})
	WriteError(w, r, http.StatusInternalServerError, pferrors.ErrCodeInternal, fallbackMessage,
		retryableFromCode(pferrors.ErrCodeInternal), details)
}

// HTTPStatusFromCode maps an error code to its HTTP status.
func HTTPStatusFromCode(code pferrors.ErrorCode) int {
	switch code {
	case pferrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case pferrors.ErrCodeDataFormat:
		return http.StatusUnprocessableEntity
	case pferrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case pferrors.ErrCodeNotFound:
		return http.StatusNotFound
	case pferrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case pferrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case pferrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case pferrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func retryableFromCode(code pferrors.ErrorCode) bool {
	switch code {
	case pferrors.ErrCodeTimeout, pferrors.ErrCodeUnavailable,
		pferrors.ErrCodeRateLimitExceeded, pferrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

// mergeDetails returns a new map with the entries of a then b, or nil when
// both are empty.
func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
