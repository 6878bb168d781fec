package archive

import "errors"

// ErrNotFound is returned when a key has no complete record in the store.
var ErrNotFound = errors.New("archive: record not found")
