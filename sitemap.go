package sitebook

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Sitemap protocol limits.
const (
	defaultFetchTimeout = 30 * time.Second
	maxSitemapBytes     = 50 << 20 // 50MB, the sitemaps.org ceiling
)

// urlSet is a leaf sitemap: a <urlset> of page locations.
type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	URLs    []sitemapLoc `xml:"url"`
}

// sitemapIndex points at further sitemaps instead of pages.
type sitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	Sitemaps []sitemapLoc `xml:"sitemap"`
}

// sitemapLoc is the shared <loc> shape of both schemas.
type sitemapLoc struct {
	Loc string `xml:"loc"`
}

// Resolver fetches a sitemap and flattens it to an ordered list of page URLs.
// A <sitemapindex> is resolved through its first entry only; the zero-value
// timeout and logger are filled in by NewResolver.
type Resolver struct {
	client *http.Client
	log    zerolog.Logger
}

// NewResolver creates a Resolver with a default HTTP timeout.
func NewResolver(log zerolog.Logger) *Resolver {
	return &Resolver{
		client: &http.Client{Timeout: defaultFetchTimeout},
		log:    log.With().Str("component", "sitemap").Logger(),
	}
}

// Resolve fetches sitemapURL and returns the page URLs in document order.
//
// Leaf sitemaps yield one entry per <url> with a non-empty <loc>; entries
// missing a location are logged and dropped. An index sitemap is followed
// recursively through its first <sitemap> entry; any further entries are
// discarded with a warning. Transport failures, non-2xx responses, and empty
// bodies fail with ErrSitemapFetch; anything that parses as neither schema
// fails with ErrSitemapFormat. One attempt per fetch, no retries.
func (r *Resolver) Resolve(ctx context.Context, sitemapURL string) ([]string, error) {
	body, err := r.fetch(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	var leaf urlSet
	if err := xml.Unmarshal(body, &leaf); err == nil {
		return r.collectPages(sitemapURL, leaf), nil
	}

	var index sitemapIndex
	if err := xml.Unmarshal(body, &index); err == nil {
		return r.resolveIndex(ctx, sitemapURL, index)
	}

	return nil, fmt.Errorf("%w: %s", ErrSitemapFormat, sitemapURL)
}

// fetch performs a single GET and returns the body, rejecting empty responses.
func (r *Resolver) fetch(ctx context.Context, sitemapURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSitemapFetch, sitemapURL, err)
	}
	req.Header.Set("Accept", "application/xml,text/xml")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSitemapFetch, sitemapURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s: unexpected status %d", ErrSitemapFetch, sitemapURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSitemapBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSitemapFetch, sitemapURL, err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: %s: empty response body", ErrSitemapFetch, sitemapURL)
	}
	return body, nil
}

// collectPages filters a leaf sitemap down to its non-empty locations.
func (r *Resolver) collectPages(sitemapURL string, leaf urlSet) []string {
	pages := make([]string, 0, len(leaf.URLs))
	for i, entry := range leaf.URLs {
		loc := strings.TrimSpace(entry.Loc)
		if loc == "" {
			r.log.Warn().Str("sitemap", sitemapURL).Int("entry", i).Msg("dropping sitemap entry without <loc>")
			continue
		}
		pages = append(pages, loc)
	}
	return pages
}

// resolveIndex follows the first referenced sub-sitemap. Real-world indexes
// point at leaf sitemaps, so recursion is effectively one level deep.
func (r *Resolver) resolveIndex(ctx context.Context, sitemapURL string, index sitemapIndex) ([]string, error) {
	if len(index.Sitemaps) == 0 {
		return nil, fmt.Errorf("%w: %s: sitemap index has no entries", ErrSitemapFormat, sitemapURL)
	}

	first := strings.TrimSpace(index.Sitemaps[0].Loc)
	if first == "" {
		return nil, fmt.Errorf("%w: %s: first index entry has no <loc>", ErrSitemapFormat, sitemapURL)
	}

	if skipped := len(index.Sitemaps) - 1; skipped > 0 {
		r.log.Warn().Str("sitemap", sitemapURL).Int("skipped", skipped).
			Msg("sitemap index has multiple entries, resolving only the first")
	}

	return r.Resolve(ctx, first)
}
