package patch

import "errors"

// All of these are batch-fatal: once one patch in a batch has failed, later
// patches may presume it succeeded, so the caller must stop and recover.
var (
	ErrMalformed   = errors.New("malformed patch")
	ErrNotFound    = errors.New("target not found")
	ErrTagMismatch = errors.New("tag mismatch")
	ErrIndexRange  = errors.New("index out of range")
)
