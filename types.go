package sitebook

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-sitebook/internal/fileutil"
)

// DefaultOutputDir is used when RunConfig.OutputDir is empty.
const DefaultOutputDir = "./pdfs"

// sitemapPath is appended to the site base URL to locate the sitemap.
const sitemapPath = "/sitemap.xml"

// DefaultHideSelectors is the chrome-suppression table for GitBook-hosted
// documentation. The selectors are coupled to the target site's markup;
// override them via RunConfig.Hide when crawling a differently built site.
func DefaultHideSelectors() []string {
	return []string{
		"header",                      // top app bar
		".scroll-nojump",              // sticky scroll helper
		"aside",                       // side navigation menu
		`button[aria-label="Search"]`, // search trigger
		`a[aria-label="Next"]`,        // next-page navigation block
		`p[class*="lastModified"]`,    // last-updated metadata block
	}
}

// RunConfig describes one crawl-and-merge run.
type RunConfig struct {
	SiteURL   string   // base documentation site URL (required)
	OutputDir string   // output tree root (default DefaultOutputDir)
	Hide      []string // CSS selectors hidden before export (default DefaultHideSelectors)
	Cover     bool     // prepend a generated cover page to the combined document
}

// Validate checks the run configuration and fills in defaults.
func (c *RunConfig) Validate() error {
	if strings.TrimSpace(c.SiteURL) == "" {
		return ErrEmptySiteURL
	}
	if !fileutil.IsURL(c.SiteURL) {
		return fmt.Errorf("%w: %q", ErrInvalidSiteURL, c.SiteURL)
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Hide == nil {
		c.Hide = DefaultHideSelectors()
	}
	return nil
}

// SitemapURL returns the sitemap location for the configured site.
func (c *RunConfig) SitemapURL() string {
	return strings.TrimRight(c.SiteURL, "/") + sitemapPath
}

// PageResult records the outcome of one attempted page.
type PageResult struct {
	URL      string // page URL from the sitemap
	Category string // URL-derived output subdirectory
	Ordinal  int    // 1-based position in sitemap order
	Path     string // output file path; empty when rendering failed
	Err      error  // nil on success
}

// RunReport summarizes a completed run. The run itself succeeds as long as
// the sitemap resolved; per-page and merge failures are recorded here.
type RunReport struct {
	Site          string
	SitemapURL    string
	Pages         []PageResult
	CombinedPath  string // empty when the merge failed or nothing rendered
	CombinedPages int
	MergeErr      error
}

// Rendered returns the pages that produced a PDF.
func (r *RunReport) Rendered() []PageResult {
	var out []PageResult
	for _, p := range r.Pages {
		if p.Err == nil {
			out = append(out, p)
		}
	}
	return out
}

// Skipped returns the pages that failed to render.
func (r *RunReport) Skipped() []PageResult {
	var out []PageResult
	for _, p := range r.Pages {
		if p.Err != nil {
			out = append(out, p)
		}
	}
	return out
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout  time.Duration
	settle   time.Duration
	viewport Viewport
}

// WithLogger sets the logger used by the service and its components.
// The default discards all output.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithTimeout sets the per-page navigation timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("sitebook: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithSettleWindow sets how long network activity must stay quiet after load
// before a page is considered settled.
func WithSettleWindow(d time.Duration) Option {
	if d <= 0 {
		panic("sitebook: WithSettleWindow duration must be positive")
	}
	return func(s *Service) {
		s.cfg.settle = d
	}
}

// WithViewport sets the emulated browser viewport.
// Panics on non-positive dimensions (programmer error).
func WithViewport(v Viewport) Option {
	if err := v.Validate(); err != nil {
		panic("sitebook: " + err.Error())
	}
	return func(s *Service) {
		s.cfg.viewport = v
	}
}

// Internal options for dependency injection in tests.

func withResolver(r sitemapResolver) Option {
	return func(s *Service) {
		s.resolver = r
	}
}

func withRenderer(r pageRenderer) Option {
	return func(s *Service) {
		s.renderer = r
	}
}

func withMerger(m pdfMerger) Option {
	return func(s *Service) {
		s.merger = m
	}
}

func withCoverBuilder(b coverHTMLBuilder) Option {
	return func(s *Service) {
		s.cover = b
	}
}
