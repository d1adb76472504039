package sitebook

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-sitebook/internal/fileutil"
)

// Compile-time interface implementation checks.
var (
	_ sitemapResolver  = (*Resolver)(nil)
	_ pageRenderer     = (*Renderer)(nil)
	_ pdfMerger        = (*Merger)(nil)
	_ coverHTMLBuilder = (*CoverBuilder)(nil)
)

// sitemapResolver abstracts sitemap resolution to enable testing without a network.
type sitemapResolver interface {
	Resolve(ctx context.Context, sitemapURL string) ([]string, error)
}

// Service orchestrates one crawl-and-merge run: resolve the sitemap once,
// render each page serially in sitemap order, and merge the results.
// Create with NewService, run with Run, and Close when done.
type Service struct {
	cfg      serviceConfig
	log      zerolog.Logger
	resolver sitemapResolver
	renderer pageRenderer
	merger   pdfMerger
	cover    coverHTMLBuilder
}

// NewService creates a Service with default components.
// Use options to customize behavior (e.g., WithLogger, WithTimeout).
func NewService(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			timeout: defaultRenderTimeout,
			settle:  defaultSettleWindow,
		},
		log: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.resolver == nil {
		s.resolver = NewResolver(s.log)
	}
	if s.renderer == nil {
		r := NewRenderer(s.log, s.cfg.viewport)
		r.timeout = s.cfg.timeout
		r.settle = s.cfg.settle
		s.renderer = r
	}
	if s.merger == nil {
		s.merger = NewMerger(s.log)
	}
	if s.cover == nil {
		s.cover = NewCoverBuilder()
	}

	return s
}

// Close releases the browser session.
func (s *Service) Close() error {
	return s.renderer.Close()
}

// Run executes one full crawl: sitemap resolution, serial page rendering,
// and final merge. Only sitemap resolution failures (and context
// cancellation) return an error; per-page and merge failures are recorded
// in the report and the run continues.
func (s *Service) Run(ctx context.Context, cfg RunConfig) (*RunReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	report := &RunReport{
		Site:       SiteNameOf(cfg.SiteURL),
		SitemapURL: cfg.SitemapURL(),
	}

	urls, err := s.resolver.Resolve(ctx, report.SitemapURL)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("site", report.Site).Int("pages", len(urls)).Msg("sitemap resolved")

	siteDir := filepath.Join(cfg.OutputDir, report.Site)
	var merged []string

	for i, pageURL := range urls {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result := s.renderOne(ctx, cfg, siteDir, pageURL, i+1)
		report.Pages = append(report.Pages, result)
		if result.Err == nil {
			merged = append(merged, result.Path)
		}
	}

	if cfg.Cover && len(merged) > 0 {
		coverPath := filepath.Join(siteDir, "cover.pdf")
		if err := s.renderCover(ctx, report, coverPath); err != nil {
			s.log.Warn().Err(err).Msg("cover page skipped")
		} else {
			merged = append([]string{coverPath}, merged...)
		}
	}

	s.combine(report, siteDir, merged)
	return report, nil
}

// renderOne computes the output path for one page and renders it.
// The ordinal advances with the URL position whether or not rendering
// succeeds, so re-runs keep stable file names.
func (s *Service) renderOne(ctx context.Context, cfg RunConfig, siteDir, pageURL string, ordinal int) PageResult {
	result := PageResult{
		URL:      pageURL,
		Ordinal:  ordinal,
		Category: CategoryOf(pageURL),
	}
	if result.Category == UnknownCategory {
		s.log.Warn().Str("url", pageURL).Msg("URL too short to categorize")
	}

	dir := filepath.Join(siteDir, result.Category)
	if err := fileutil.EnsureDir(dir); err != nil {
		result.Err = err
		s.log.Error().Err(err).Str("url", pageURL).Msg("creating category directory")
		return result
	}

	path := filepath.Join(dir, fmt.Sprintf("page_%d.pdf", ordinal))
	if err := s.renderer.Render(ctx, pageURL, path, cfg.Hide); err != nil {
		result.Err = err
		s.log.Error().Err(err).Str("url", pageURL).Msg("page skipped")
		return result
	}

	result.Path = path
	s.log.Info().Str("url", pageURL).Str("path", path).Msg("page rendered")
	return result
}

// renderCover builds the run-summary HTML and renders it through the shared
// browser session to coverPath.
func (s *Service) renderCover(ctx context.Context, report *RunReport, coverPath string) error {
	htmlDoc, err := s.cover.BuildHTML(report.Site, time.Now(), report.Pages)
	if err != nil {
		return err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlDoc, "html")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCoverBuild, err)
	}
	defer cleanup()

	// No chrome to hide on our own document.
	return s.renderer.Render(ctx, "file://"+tmpPath, coverPath, nil)
}

// combine merges the collected files into <site>_combined.pdf. A merge
// failure is recorded on the report, not returned; the per-page PDFs are
// already on disk and remain usable.
func (s *Service) combine(report *RunReport, siteDir string, merged []string) {
	if len(merged) == 0 {
		s.log.Warn().Msg("nothing rendered, skipping merge")
		return
	}

	combined := filepath.Join(siteDir, report.Site+"_combined.pdf")
	if err := s.merger.Combine(merged, combined); err != nil {
		report.MergeErr = err
		s.log.Error().Err(err).Msg("combining PDFs")
		return
	}

	report.CombinedPath = combined
	if n, err := s.merger.PageCount(combined); err == nil {
		report.CombinedPages = n
	}
	s.log.Info().Str("path", combined).Int("pages", report.CombinedPages).Msg("combined document written")
}
