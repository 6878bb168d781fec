package mirror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/restoredcdc/warcserve/pkg/archive"
	"github.com/restoredcdc/warcserve/pkg/rewrite"
)

// Mount attaches the content routes to a router. The catch-all must be
// registered last so static routes (health, docs) keep precedence.
func (s *Service) Mount(r chi.Router) {
	r.Get("/", s.HandleHome)
	r.Get("/*", s.HandleContent)
}

// HandleHome redirects the bare site root to the home domain's front page.
func (s *Service) HandleHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/"+s.homeDomain+"/", http.StatusFound)
}

// HandleContent is the catch-all serving archived pages and assets.
func (s *Service) HandleContent(w http.ResponseWriter, r *http.Request) {
	s.requests.Add(1)

	path := strings.TrimPrefix(r.URL.Path, "/")
	if r.URL.RawQuery != "" {
		path = path + "?" + r.URL.RawQuery
	}
	path = SimplifyPath(path)

	content, mimetype, err := s.FindContent(r.Context(), path)
	switch {
	case errors.Is(err, archive.ErrNotFound):
		s.misses.Add(1)
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	case err != nil:
		s.logger.Error("lookup failed", zap.String("path", path), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if mimetype == archive.RedirectMimetype {
		target := "/" + string(content)
		s.redirects.Add(1)
		s.logger.Info("redirecting", zap.String("from", path), zap.String("to", target))
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	s.hits.Add(1)
	s.logger.Debug("serving", zap.String("path", path), zap.String("mimetype", mimetype))

	if rewrite.IsHTML(mimetype) {
		content = s.rewriter.RewriteHTML(path, content)
	}

	w.Header().Set("Content-Type", mimetype)
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}
