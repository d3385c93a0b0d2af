package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrAuthRequired indicates the design agent backend rejected the call (401)
	ErrAuthRequired = errors.New("authentication required, please log in")
	// ErrAgentUnavailable indicates the design agent backend could not be reached
	ErrAgentUnavailable = errors.New("design agent unavailable")
)
