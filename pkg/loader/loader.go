// Package loader imports converter dumps into an archive store. The dump
// format is JSON Lines: one record per line, either a content record
// (url, mimetype, base64 content) or a redirect record (url, redirect).
package loader

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/restoredcdc/warcserve/pkg/archive"
)

// Record is one line of a converter dump.
type Record struct {
	URL      string `json:"url"`
	Mimetype string `json:"mimetype,omitempty"`
	Content  string `json:"content,omitempty"` // base64-encoded body
	Redirect string `json:"redirect,omitempty"`
}

// Result reports what an import did.
type Result struct {
	Loaded  int
	Skipped int
}

// Scanner line limit. Single captured assets (PDFs, videos) can be large.
const maxLineBytes = 64 << 20

// Load reads JSONL records from r and writes them to store. Malformed
// lines are logged and counted, not fatal.
func Load(ctx context.Context, r io.Reader, store archive.Store, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var res Result
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64<<10), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return res, err
		}

		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			logger.Warn("skipping malformed line", zap.Int("line", line), zap.Error(err))
			res.Skipped++
			continue
		}

		key, content, mimetype, err := rec.normalize()
		if err != nil {
			logger.Warn("skipping record", zap.Int("line", line), zap.String("url", rec.URL), zap.Error(err))
			res.Skipped++
			continue
		}

		if err := store.Put(ctx, key, content, mimetype); err != nil {
			return res, fmt.Errorf("storing %s: %w", key, err)
		}
		res.Loaded++
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("reading dump: %w", err)
	}

	return res, nil
}

// normalize validates a record and produces the store key and values.
func (rec Record) normalize() (key string, content []byte, mimetype string, err error) {
	if rec.URL == "" {
		return "", nil, "", fmt.Errorf("missing url")
	}

	key = rec.URL
	if !strings.HasPrefix(key, "https://") && !strings.HasPrefix(key, "http://") {
		key = "https://" + key
	}

	if rec.Redirect != "" {
		return key, []byte(rec.Redirect), archive.RedirectMimetype, nil
	}

	if rec.Mimetype == "" {
		return "", nil, "", fmt.Errorf("missing mimetype")
	}
	content, err = base64.StdEncoding.DecodeString(rec.Content)
	if err != nil {
		return "", nil, "", fmt.Errorf("decoding content: %w", err)
	}

	return key, content, rec.Mimetype, nil
}
