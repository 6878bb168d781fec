// Package backup ships consistent snapshots of the serving database to
// S3-compatible storage and prunes old ones.
package backup

import (
	"context"
	"io"
	"sort"
	"time"
)

// SnapshotPrefix groups uploaded snapshots under one key prefix.
const SnapshotPrefix = "snapshots/"

// Snapshot describes one uploaded database copy.
type Snapshot struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Store is the object storage interface backup needs.
type Store interface {
	// EnsureBucket ensures the target bucket exists, creating it if needed.
	EnsureBucket(ctx context.Context) error

	// Upload streams an object to the store. size may be -1 when unknown.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*Snapshot, error)

	// List lists objects under prefix.
	List(ctx context.Context, prefix string) ([]*Snapshot, error)

	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
}

// Source is anything that can write a consistent snapshot of itself,
// which the bolt archive store does via its read transaction.
type Source interface {
	Snapshot(w io.Writer) (int64, error)
}

// SnapshotKey names an upload after its start time. The format sorts
// lexicographically in time order, which Prune relies on.
func SnapshotKey(t time.Time) string {
	return SnapshotPrefix + t.UTC().Format("20060102T150405Z") + ".db"
}

// Run uploads one snapshot of src and returns its key.
func Run(ctx context.Context, src Source, store Store, now time.Time) (string, error) {
	if err := store.EnsureBucket(ctx); err != nil {
		return "", err
	}

	key := SnapshotKey(now)

	pr, pw := io.Pipe()
	go func() {
		_, err := src.Snapshot(pw)
		pw.CloseWithError(err)
	}()

	if _, err := store.Upload(ctx, key, pr, -1, "application/octet-stream"); err != nil {
		pr.CloseWithError(err)
		return "", err
	}

	return key, nil
}

// Prune deletes all but the keep newest snapshots and returns the keys it
// removed.
func Prune(ctx context.Context, store Store, keep int) ([]string, error) {
	snapshots, err := store.List(ctx, SnapshotPrefix)
	if err != nil {
		return nil, err
	}
	if len(snapshots) <= keep {
		return nil, nil
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Key < snapshots[j].Key
	})

	var removed []string
	for _, s := range snapshots[:len(snapshots)-keep] {
		if err := store.Delete(ctx, s.Key); err != nil {
			return removed, err
		}
		removed = append(removed, s.Key)
	}

	return removed, nil
}
