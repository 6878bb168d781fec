// Package archive provides access to the restored-site snapshot database.
// A snapshot holds two keyspaces keyed by canonical URL: the raw response
// body and its stored mimetype. Backends (bbolt, Valkey, in-memory) are
// swappable without changing the serving path.
package archive

import "context"

// RedirectMimetype marks a record whose content is a redirect target
// (host + path, no scheme) rather than a response body. The converter
// writes these for captured HTTP redirects.
const RedirectMimetype = "=redirect="

// Store defines the snapshot database interface. Keys are canonical URLs
// in "https://host/path" form. A record only exists when both its content
// and its mimetype are present.
type Store interface {
	// Get retrieves the stored body and mimetype for key.
	// Returns ErrNotFound if either half of the record is missing.
	Get(ctx context.Context, key string) (content []byte, mimetype string, err error)

	// Put stores a record under key, overwriting any previous one.
	Put(ctx context.Context, key string, content []byte, mimetype string) error

	// Close releases the underlying database.
	Close() error
}
