package mirror

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/restoredcdc/warcserve/pkg/archive"
)

var (
	slashBeforeQuery = regexp.MustCompile(`^([^?]+)/\?(.*)$`)
	queryNoSlash     = regexp.MustCompile(`^([^?]+)\?(.*)$`)
)

// SimplifyPath strips a leading scheme from a request path. Crawled pages
// sometimes carry single-slash variants ("https:/host/...") after URL
// normalization by intermediaries, so those are handled too.
func SimplifyPath(p string) string {
	for _, prefix := range []string{"https://", "http://", "https:/", "http:/"} {
		if strings.HasPrefix(p, prefix) {
			return p[len(prefix):]
		}
	}
	return p
}

// alternateKey returns the one retry key for a canonical key that missed:
// the trailing slash moves to the other side of the query separator, or is
// appended when there is no query at all.
func alternateKey(key string) string {
	if m := slashBeforeQuery.FindStringSubmatch(key); m != nil {
		return m[1] + "?" + m[2]
	}
	if m := queryNoSlash.FindStringSubmatch(key); m != nil {
		return m[1] + "/?" + m[2]
	}
	return key + "/"
}

// FindContent looks up the record for a simplified path (host/path[?query]),
// retrying once with the slash/query variant the converter may have stored
// instead.
func (s *Service) FindContent(ctx context.Context, path string) ([]byte, string, error) {
	key := "https://" + path

	s.logger.Debug("looking up key", zap.String("key", key))
	content, mimetype, err := s.store.Get(ctx, key)
	if errors.Is(err, archive.ErrNotFound) {
		alt := alternateKey(key)
		s.logger.Debug("looking up secondary key", zap.String("key", alt))
		content, mimetype, err = s.store.Get(ctx, alt)
	}
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			s.logger.Warn("missing content or mimetype", zap.String("path", path))
		}
		return nil, "", err
	}

	return content, mimetype, nil
}
