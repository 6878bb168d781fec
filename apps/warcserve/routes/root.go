package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/restoredcdc/warcserve/pkg/archive"
	"github.com/restoredcdc/warcserve/pkg/mirror"
)

// RegisterRoutes attaches the operational API under /api. cache may be nil
// when the content cache is disabled.
func RegisterRoutes(api huma.API, svc *mirror.Service, cache *archive.CachedStore) {
	RegisterHealth(api)
	RegisterStats(api, svc, cache)
	RegisterLookup(api, svc)
}
