// Package common defines shared sentinel errors and small helpers used across
// the blobkeeper client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Validation errors (bad input, reported before any network call).
	ErrValidation = errors.New("validation error")

	// Transport errors (non-2xx responses, connection failures).
	ErrTransport = errors.New("transport error")

	// Format errors (a response body that does not match any known shape).
	ErrFormat = errors.New("unexpected response format")

	// Authorization errors (decrypt path without a usable session).
	ErrAuthorizationRequired = errors.New("authorization required")
)
