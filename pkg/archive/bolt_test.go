package archive

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestBolt(t *testing.T) *BoltStore {
	t.Helper()

	store, err := OpenBolt(BoltConfig{Path: filepath.Join(t.TempDir(), "snapshot.db")})
	if err != nil {
		t.Fatalf("OpenBolt failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltRoundTrip(t *testing.T) {
	store := openTestBolt(t)
	ctx := context.Background()

	key := "https://hivrisk.cdc.gov/"
	if err := store.Put(ctx, key, []byte("<p>hello</p>"), "text/html"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	content, mimetype, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(content) != "<p>hello</p>" {
		t.Errorf("content = %q, want %q", content, "<p>hello</p>")
	}
	if mimetype != "text/html" {
		t.Errorf("mimetype = %q, want %q", mimetype, "text/html")
	}
}

func TestBoltNotFound(t *testing.T) {
	store := openTestBolt(t)

	_, _, err := store.Get(context.Background(), "https://nccd.cdc.gov/missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBoltReadOnlyMissingFile(t *testing.T) {
	_, err := OpenBolt(BoltConfig{
		Path:     filepath.Join(t.TempDir(), "does-not-exist.db"),
		ReadOnly: true,
	})
	if err == nil {
		t.Fatal("expected error opening missing database read-only")
	}
}

func TestBoltReadOnlyServing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.db")
	ctx := context.Background()

	rw, err := OpenBolt(BoltConfig{Path: path})
	if err != nil {
		t.Fatalf("OpenBolt failed: %v", err)
	}
	if err := rw.Put(ctx, "https://www.cdc.gov/", []byte("home"), "text/html"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := rw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	ro, err := OpenBolt(BoltConfig{Path: path, ReadOnly: true})
	if err != nil {
		t.Fatalf("OpenBolt read-only failed: %v", err)
	}
	defer ro.Close()

	content, _, err := ro.Get(ctx, "https://www.cdc.gov/")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(content) != "home" {
		t.Errorf("content = %q, want %q", content, "home")
	}
}

func TestBoltSnapshot(t *testing.T) {
	store := openTestBolt(t)
	ctx := context.Background()

	if err := store.Put(ctx, "https://www.cdc.gov/", []byte("home"), "text/html"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	var buf bytes.Buffer
	n, err := store.Snapshot(&buf)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("Snapshot reported %d bytes, wrote %d", n, buf.Len())
	}

	// The copy must itself be a readable snapshot.
	copyPath := filepath.Join(t.TempDir(), "copy.db")
	if err := os.WriteFile(copyPath, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing copy: %v", err)
	}

	restored, err := OpenBolt(BoltConfig{Path: copyPath, ReadOnly: true})
	if err != nil {
		t.Fatalf("OpenBolt on snapshot copy failed: %v", err)
	}
	defer restored.Close()

	content, _, err := restored.Get(ctx, "https://www.cdc.gov/")
	if err != nil {
		t.Fatalf("Get on snapshot copy failed: %v", err)
	}
	if string(content) != "home" {
		t.Errorf("content = %q, want %q", content, "home")
	}
}
