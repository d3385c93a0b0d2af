package kv

import "errors"

// ErrWriteFailed indicates the store rejected a write.
var ErrWriteFailed = errors.New("kv: write failed")
