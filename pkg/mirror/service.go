// Package mirror serves an archived site snapshot over HTTP: canonical-key
// lookup with slash/query fallback, redirect records, and HTML link
// localization on the way out.
package mirror

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/restoredcdc/warcserve/pkg/archive"
	"github.com/restoredcdc/warcserve/pkg/rewrite"
)

// Service ties the snapshot store to the rewriting rules.
type Service struct {
	store    archive.Store
	rewriter *rewrite.Rewriter
	logger   *zap.Logger

	homeDomain string

	requests  atomic.Uint64
	hits      atomic.Uint64
	misses    atomic.Uint64
	redirects atomic.Uint64
}

// Stats reports serving counters since startup.
type Stats struct {
	Requests  uint64 `json:"requests"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Redirects uint64 `json:"redirects"`
}

// NewService creates a mirror service. homeDomain is where the site root
// redirects (e.g. "www.cdc.gov").
func NewService(store archive.Store, rewriter *rewrite.Rewriter, homeDomain string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:      store,
		rewriter:   rewriter,
		logger:     logger,
		homeDomain: homeDomain,
	}
}

// Stats returns the serving counters.
func (s *Service) Stats() Stats {
	return Stats{
		Requests:  s.requests.Load(),
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Redirects: s.redirects.Load(),
	}
}
