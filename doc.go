// Package sitebook crawls a documentation site's sitemap, renders each page
// to PDF using headless Chrome, and merges the results into one combined
// document organized by URL-derived categories.
//
// # Quick Start
//
// Create a service, run it against a site, and close when done:
//
//	svc := sitebook.NewService()
//	defer svc.Close()
//
//	report, err := svc.Run(ctx, sitebook.RunConfig{
//	    SiteURL:   "https://renownedgames.gitbook.io/ai-tree",
//	    OutputDir: "./pdfs",
//	    Cover:     true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.CombinedPath)
//
// The report lists every attempted page with its ordinal, category, output
// path, and per-page error if rendering failed. A render failure skips the
// page and the run continues; only sitemap resolution failures abort the run.
//
// # Pipeline
//
// A run proceeds in four stages:
//
//  1. Sitemap resolution (<site>/sitemap.xml, one level of index indirection)
//  2. Per-page headless rendering via go-rod, with site chrome hidden
//  3. Optional cover page composed from a Markdown run summary (goldmark)
//  4. Page-level PDF concatenation via pdfcpu
//
// # Output Layout
//
//	<out>/<site>/<category>/page_<N>.pdf
//	<out>/<site>/cover.pdf
//	<out>/<site>/<site>_combined.pdf
//
// N is the 1-based position of the URL in sitemap order and keeps advancing
// when a page fails, so re-runs against an unchanged sitemap overwrite files
// in place.
//
// # Browser Requirements
//
// Rendering requires Chrome/Chromium. The go-rod library downloads a managed
// Chromium instance on first run if none is found. For containers and CI, set
// ROD_BROWSER_BIN to a pre-installed binary; the sandbox is disabled
// automatically when ROD_BROWSER_BIN or CI=true is set.
package sitebook
