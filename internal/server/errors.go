package server

import "errors"

// ErrVideoNotFound is returned for unknown video IDs and missing files
var ErrVideoNotFound = errors.New("video not found")
