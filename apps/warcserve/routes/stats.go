package routes

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/restoredcdc/warcserve/pkg/archive"
	"github.com/restoredcdc/warcserve/pkg/mirror"
)

type StatsOutput struct {
	Body struct {
		Serving mirror.Stats        `json:"serving"`
		Cache   *archive.CacheStats `json:"cache,omitempty"`
	}
}

func RegisterStats(api huma.API, svc *mirror.Service, cache *archive.CachedStore) {
	huma.Register(api, huma.Operation{
		OperationID: "stats",
		Method:      http.MethodGet,
		Path:        "/api/stats",
		Summary:     "Serving statistics",
		Description: "Returns request, hit/miss and cache counters since startup",
		Tags:        []string{"General"},
	}, func(ctx context.Context, input *struct{}) (*StatsOutput, error) {
		resp := &StatsOutput{}
		resp.Body.Serving = svc.Stats()
		if cache != nil {
			stats := cache.Stats()
			resp.Body.Cache = &stats
		}
		return resp, nil
	})
}
