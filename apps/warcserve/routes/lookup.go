package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/restoredcdc/warcserve/pkg/archive"
	"github.com/restoredcdc/warcserve/pkg/mirror"
)

type LookupInput struct {
	Path string `query:"path" required:"true" example:"www.cdc.gov/flu/index.html" doc:"Archived path (host/path, scheme optional)"`
}

type LookupOutput struct {
	Body struct {
		Path     string `json:"path" doc:"Simplified path that was looked up"`
		Mimetype string `json:"mimetype" doc:"Stored mimetype"`
		Size     int    `json:"size" doc:"Stored body size in bytes"`
		Redirect string `json:"redirect,omitempty" doc:"Redirect target, for redirect records"`
	}
}

// RegisterLookup exposes record metadata for debugging snapshot coverage.
func RegisterLookup(api huma.API, svc *mirror.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "lookup",
		Method:      http.MethodGet,
		Path:        "/api/lookup",
		Summary:     "Inspect an archived record",
		Description: "Returns record metadata without the body",
		Tags:        []string{"Archive"},
	}, func(ctx context.Context, input *LookupInput) (*LookupOutput, error) {
		path := mirror.SimplifyPath(input.Path)

		content, mimetype, err := svc.FindContent(ctx, path)
		if err != nil {
			if errors.Is(err, archive.ErrNotFound) {
				return nil, huma.Error404NotFound("no archived record for " + path)
			}
			return nil, err
		}

		resp := &LookupOutput{}
		resp.Body.Path = path
		resp.Body.Mimetype = mimetype
		resp.Body.Size = len(content)
		if mimetype == archive.RedirectMimetype {
			resp.Body.Redirect = string(content)
		}
		return resp, nil
	})
}
