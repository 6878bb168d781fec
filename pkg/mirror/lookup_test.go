package mirror

import (
	"context"
	"errors"
	"testing"

	"github.com/restoredcdc/warcserve/pkg/archive"
	"github.com/restoredcdc/warcserve/pkg/rewrite"
)

func testService(t *testing.T) (*Service, *archive.MemoryStore) {
	t.Helper()

	store := archive.NewMemoryStore()
	ctx := context.Background()
	store.Put(ctx, "https://hivrisk.cdc.gov/", []byte("<p>Welcome to hivrisk.cdc.gov</p>"), "text/html")
	store.Put(ctx, "https://nccd.cdc.gov/", []byte("<p>Welcome to nccd.cdc.gov</p>"), "text/html")
	store.Put(ctx, "https://nccd.cdc.gov/favicon.ico", []byte("1234"), "image/x-icon")

	cfg := rewrite.DefaultConfig()
	cfg.MirroredDomains = []string{"hivrisk.cdc.gov", "nccd.cdc.gov"}
	svc := NewService(store, rewrite.New(cfg), cfg.HomeDomain, nil)
	return svc, store
}

func TestSimplifyPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://hivrisk.cdc.gov/testing.html", "hivrisk.cdc.gov/testing.html"},
		{"http://hivrisk.cdc.gov/testing.html", "hivrisk.cdc.gov/testing.html"},
		{"https:/hivrisk.cdc.gov/testing.html", "hivrisk.cdc.gov/testing.html"},
		{"http:/hivrisk.cdc.gov/testing.html", "hivrisk.cdc.gov/testing.html"},
		{"hivrisk.cdc.gov/testing.html", "hivrisk.cdc.gov/testing.html"},
	}
	for _, c := range cases {
		if got := SimplifyPath(c.in); got != c.want {
			t.Errorf("SimplifyPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFindContent(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	// Without a trailing slash the lookup falls back to the slashed key.
	content, mimetype, err := svc.FindContent(ctx, "hivrisk.cdc.gov")
	if err != nil {
		t.Fatalf("FindContent failed: %v", err)
	}
	if string(content) != "<p>Welcome to hivrisk.cdc.gov</p>" || mimetype != "text/html" {
		t.Errorf("got (%q, %q)", content, mimetype)
	}

	// With a trailing slash the primary key hits directly.
	content, mimetype, err = svc.FindContent(ctx, "hivrisk.cdc.gov/")
	if err != nil {
		t.Fatalf("FindContent failed: %v", err)
	}
	if string(content) != "<p>Welcome to hivrisk.cdc.gov</p>" || mimetype != "text/html" {
		t.Errorf("got (%q, %q)", content, mimetype)
	}
}

func TestFindContentMimetypes(t *testing.T) {
	svc, _ := testService(t)

	content, mimetype, err := svc.FindContent(context.Background(), "nccd.cdc.gov/favicon.ico")
	if err != nil {
		t.Fatalf("FindContent failed: %v", err)
	}
	if string(content) != "1234" || mimetype != "image/x-icon" {
		t.Errorf("got (%q, %q)", content, mimetype)
	}
}

func TestFindContentNotFound(t *testing.T) {
	svc, _ := testService(t)

	_, _, err := svc.FindContent(context.Background(), "nccd.cdc.gov/page-definitely-not-there.html")
	if !errors.Is(err, archive.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFindContentQueryVariants(t *testing.T) {
	svc, store := testService(t)
	ctx := context.Background()

	// Stored without a slash before the query, requested with one.
	store.Put(ctx, "https://nccd.cdc.gov/search?q=flu", []byte("results"), "text/html")
	content, _, err := svc.FindContent(ctx, "nccd.cdc.gov/search/?q=flu")
	if err != nil {
		t.Fatalf("FindContent failed: %v", err)
	}
	if string(content) != "results" {
		t.Errorf("got %q", content)
	}

	// Stored with a slash before the query, requested without one.
	store.Put(ctx, "https://nccd.cdc.gov/browse/?page=2", []byte("page two"), "text/html")
	content, _, err = svc.FindContent(ctx, "nccd.cdc.gov/browse?page=2")
	if err != nil {
		t.Fatalf("FindContent failed: %v", err)
	}
	if string(content) != "page two" {
		t.Errorf("got %q", content)
	}
}

func TestAlternateKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://a.cdc.gov/x/?q=1", "https://a.cdc.gov/x?q=1"},
		{"https://a.cdc.gov/x?q=1", "https://a.cdc.gov/x/?q=1"},
		{"https://a.cdc.gov/x", "https://a.cdc.gov/x/"},
	}
	for _, c := range cases {
		if got := alternateKey(c.in); got != c.want {
			t.Errorf("alternateKey(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
