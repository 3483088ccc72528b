// Package common defines sentinel errors shared by the editor, the HTTP
// transport and the server layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")
	ErrValidation = errors.New("validation error")

	// Transport errors: the submitted change-set could not be decoded or is
	// structurally inconsistent. Fatal to the whole submission.
	ErrMalformedChangeSet = errors.New("malformed change-set")

	// Editor session errors.
	ErrNotCollecting = errors.New("session is not collecting edits")
)
