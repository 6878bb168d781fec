// Package rewrite localizes links in archived HTML so the mirrored site is
// self-contained: absolute URLs into the archive become local paths, links
// to domains hosted by the primary restored site point at its public host,
// and root-relative URLs are prefixed with the domain of the current page.
package rewrite

import (
	"bytes"
	"regexp"
	"strings"
)

// Config controls how archived domains are resolved.
type Config struct {
	// ArchiveSuffix is the domain suffix the archive covers, without a
	// leading dot (e.g. "cdc.gov"). Any host under it is rewritten.
	ArchiveSuffix string

	// MirroredDomains lists hosts served by this instance. Informational:
	// hosts under ArchiveSuffix not listed in PrimaryDomains resolve
	// locally either way.
	MirroredDomains []string

	// PrimaryHost is the public host of the primary restored site
	// (e.g. "www.restoredcdc.org").
	PrimaryHost string

	// PrimaryDomains lists archived hosts served by the primary site
	// rather than this instance.
	PrimaryDomains []string

	// DomainFixups maps hosts to replacements applied before any other
	// rule, for staging hosts that leaked into captured pages.
	DomainFixups map[string]string

	// HomeDomain is the domain the site root redirects to.
	HomeDomain string
}

// DefaultConfig returns the rule set for the restored CDC mirror.
func DefaultConfig() Config {
	return Config{
		ArchiveSuffix: "cdc.gov",
		PrimaryHost:   "www.restoredcdc.org",
		PrimaryDomains: []string{
			"www.cdc.gov",
		},
		DomainFixups: map[string]string{
			"hivriskstage.cdc.gov": "hivrisk.cdc.gov",
		},
		HomeDomain: "www.cdc.gov",
	}
}

// Rewriter applies the link localization rules to page bodies.
type Rewriter struct {
	cfg     Config
	primary map[string]bool

	attrAbsolute *regexp.Regexp // href="https://host.cdc.gov/
	bareURL      *regexp.Regexp // text or JS URL with one leading char kept
	leadingURL   *regexp.Regexp // URL at the very start of the body
	propURL      *regexp.Regexp // "key": "https://host.cdc.gov/
	attrRelative *regexp.Regexp // href="/path
	localhostURL *regexp.Regexp // converter artifact
	pathDomain   *regexp.Regexp // domain from the request path
}

// New compiles a Rewriter for the given config.
func New(cfg Config) *Rewriter {
	if cfg.ArchiveSuffix == "" {
		cfg.ArchiveSuffix = "cdc.gov"
	}

	primary := make(map[string]bool, len(cfg.PrimaryDomains))
	for _, d := range cfg.PrimaryDomains {
		primary[d] = true
	}

	domain := `([a-zA-Z0-9.-]+\.` + regexp.QuoteMeta(cfg.ArchiveSuffix) + `)`

	return &Rewriter{
		cfg:     cfg,
		primary: primary,

		attrAbsolute: regexp.MustCompile(`(href|src|srcset)=(["'])https://` + domain + `/`),
		// RE2 has no lookbehind, so keep one preceding character and make
		// sure it is not a quote, '=' or '/' (already-handled contexts).
		bareURL:      regexp.MustCompile(`([^"'=/])https://` + domain + `/`),
		leadingURL:   regexp.MustCompile(`^https://` + domain + `/`),
		propURL:      regexp.MustCompile(`(:\s*["'])https://` + domain + `/`),
		attrRelative: regexp.MustCompile(`(href|src|srcset)=(["'])/([a-zA-Z0-9.-]*)`),
		localhostURL: regexp.MustCompile(`https?://localhost:8080/`),
		pathDomain:   regexp.MustCompile(`^/?([a-zA-Z0-9.-]+\.` + regexp.QuoteMeta(cfg.ArchiveSuffix) + `)\b`),
	}
}

// resolve maps an archived host to its serving prefix: a local path for
// mirrored hosts, an absolute URL on the primary restored site for hosts
// it owns.
func (r *Rewriter) resolve(domain string) string {
	if r.primary[domain] {
		return "https://" + r.cfg.PrimaryHost + "/" + domain + "/"
	}
	return "/" + domain + "/"
}

// CurrentDomain extracts the archived domain a request path addresses,
// e.g. "/hivrisk.cdc.gov/about/" -> "hivrisk.cdc.gov". Empty when the path
// does not start with an archived domain.
func (r *Rewriter) CurrentDomain(path string) string {
	m := r.pathDomain.FindStringSubmatch(path)
	if m == nil {
		return ""
	}
	return m[1]
}

// RewriteHTML localizes every archived-domain link in content. requestPath
// is the path of the page being served and supplies the domain used for
// root-relative links.
func (r *Rewriter) RewriteHTML(requestPath string, content []byte) []byte {
	for from, to := range r.cfg.DomainFixups {
		content = bytes.ReplaceAll(content, []byte(from), []byte(to))
	}

	// Absolute URLs in href/src/srcset attributes.
	content = r.attrAbsolute.ReplaceAllFunc(content, func(m []byte) []byte {
		sub := r.attrAbsolute.FindSubmatch(m)
		out := append(append([]byte(nil), sub[1]...), '=', sub[2][0])
		return append(out, r.resolve(string(sub[3]))...)
	})

	// Bare URLs in text or scripts.
	content = r.bareURL.ReplaceAllFunc(content, func(m []byte) []byte {
		sub := r.bareURL.FindSubmatch(m)
		out := append([]byte(nil), sub[1]...)
		return append(out, r.resolve(string(sub[2]))...)
	})
	content = r.leadingURL.ReplaceAllFunc(content, func(m []byte) []byte {
		sub := r.leadingURL.FindSubmatch(m)
		return []byte(r.resolve(string(sub[1])))
	})

	// JS/JSON property values.
	content = r.propURL.ReplaceAllFunc(content, func(m []byte) []byte {
		sub := r.propURL.FindSubmatch(m)
		return append(append([]byte(nil), sub[1]...), r.resolve(string(sub[2]))...)
	})

	currentDomain := r.CurrentDomain(requestPath)
	if currentDomain != "" {
		// Root-relative attribute URLs get the current page's domain,
		// unless the path already starts with an archived domain.
		content = r.attrRelative.ReplaceAllFunc(content, func(m []byte) []byte {
			sub := r.attrRelative.FindSubmatch(m)
			firstSegment := string(sub[3])
			if firstSegment == currentDomain || strings.HasSuffix(firstSegment, "."+r.cfg.ArchiveSuffix) {
				return m
			}
			out := append(append([]byte(nil), sub[1]...), '=', sub[2][0], '/')
			out = append(out, currentDomain...)
			out = append(out, '/')
			return append(out, sub[3]...)
		})

		content = r.localhostURL.ReplaceAll(content, []byte("/"+currentDomain+"/"))
	}

	return content
}

// IsHTML reports whether a stored mimetype is HTML, with or without
// parameters ("text/html; charset=utf-8").
func IsHTML(mimetype string) bool {
	return mimetype == "text/html" || strings.HasPrefix(mimetype, "text/html;")
}
