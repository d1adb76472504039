package sitebook

import "errors"

// Sentinel errors for library operations.
var (
	// Sitemap resolution errors. Both abort the run.
	ErrSitemapFetch  = errors.New("sitemap fetch failed")
	ErrSitemapFormat = errors.New("sitemap XML matches no known schema")

	// Browser and rendering errors. Recovered per page by the orchestrator.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPageEval       = errors.New("page script evaluation failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// Assembly errors. Recovered: the run completes without a combined file.
	ErrPDFMerge     = errors.New("PDF merge failed")
	ErrNoMergeInput = errors.New("no PDF files to merge")
	ErrCoverBuild   = errors.New("cover page build failed")

	// Run configuration validation errors.
	ErrEmptySiteURL    = errors.New("site URL cannot be empty")
	ErrInvalidSiteURL  = errors.New("site URL must start with http:// or https://")
	ErrInvalidViewport = errors.New("invalid viewport")
)
