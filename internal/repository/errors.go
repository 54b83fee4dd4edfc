package repository

import "errors"

// ErrNotFound is the sentinel wrapped by repositories when a lookup matches
// no row. Call sites detect it with errors.Is.
var ErrNotFound = errors.New("not found")
