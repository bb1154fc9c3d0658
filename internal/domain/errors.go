package domain

import "errors"

// ErrNotFound is returned by updates against a missing id. Plain lookups
// report absence as a nil result instead.
var ErrNotFound = errors.New("not found")
