package archive

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestCachedStoreReadThrough(t *testing.T) {
	ctx := context.Background()
	backing := NewMemoryStore()
	backing.Put(ctx, "https://www.cdc.gov/", []byte("home"), "text/html")

	cached := NewCachedStore(32<<20, backing)

	// First read misses the cache and fills it.
	content, mimetype, err := cached.Get(ctx, "https://www.cdc.gov/")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(content) != "home" || mimetype != "text/html" {
		t.Errorf("got (%q, %q)", content, mimetype)
	}

	// Second read is served from the cache.
	content, mimetype, err = cached.Get(ctx, "https://www.cdc.gov/")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(content) != "home" || mimetype != "text/html" {
		t.Errorf("got (%q, %q)", content, mimetype)
	}

	stats := cached.Stats()
	if stats.Hits != 1 {
		t.Errorf("Hits = %d, want 1", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
}

func TestCachedStoreLargeContent(t *testing.T) {
	ctx := context.Background()
	backing := NewMemoryStore()

	// Larger than fastcache's 64 KiB per-entry limit for plain Set.
	large := bytes.Repeat([]byte("warc"), 64<<10)
	backing.Put(ctx, "https://www.cdc.gov/big.pdf", large, "application/pdf")

	cached := NewCachedStore(64<<20, backing)

	for i := 0; i < 2; i++ {
		content, mimetype, err := cached.Get(ctx, "https://www.cdc.gov/big.pdf")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(content, large) {
			t.Fatalf("content mismatch on read %d", i)
		}
		if mimetype != "application/pdf" {
			t.Errorf("mimetype = %q", mimetype)
		}
	}

	if stats := cached.Stats(); stats.Hits != 1 {
		t.Errorf("Hits = %d, want 1", stats.Hits)
	}
}

func TestCachedStoreNotFound(t *testing.T) {
	cached := NewCachedStore(1<<20, NewMemoryStore())

	_, _, err := cached.Get(context.Background(), "https://www.cdc.gov/missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCachedStorePutWritesThrough(t *testing.T) {
	ctx := context.Background()
	backing := NewMemoryStore()
	cached := NewCachedStore(1<<20, backing)

	if err := cached.Put(ctx, "https://www.cdc.gov/x", []byte("body"), "text/plain"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	content, mimetype, err := backing.Get(ctx, "https://www.cdc.gov/x")
	if err != nil {
		t.Fatalf("backing Get failed: %v", err)
	}
	if string(content) != "body" || mimetype != "text/plain" {
		t.Errorf("got (%q, %q)", content, mimetype)
	}
}
