package sitebook

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

// pageRenderer abstracts headless page rendering to enable testing without a browser.
type pageRenderer interface {
	Render(ctx context.Context, pageURL, outputPath string, hide []string) error
	Close() error
}

// Viewport configures the emulated browser window.
type Viewport struct {
	Width  int
	Height int
	Scale  float64 // device scale factor
}

// DefaultViewport matches a typical laptop window at 2x scale for crisp
// raster output in the exported PDFs.
func DefaultViewport() Viewport {
	return Viewport{Width: 1280, Height: 800, Scale: 2}
}

// Validate checks viewport dimensions.
func (v Viewport) Validate() error {
	if v.Width <= 0 || v.Height <= 0 || v.Scale <= 0 {
		return fmt.Errorf("%w: %dx%d@%g", ErrInvalidViewport, v.Width, v.Height, v.Scale)
	}
	return nil
}

// A4 paper dimensions in inches.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
)

// Rendering defaults.
const (
	defaultRenderTimeout = 60 * time.Second
	defaultSettleWindow  = 500 * time.Millisecond
)

// hideScript sets display:none on every element matching the given
// selectors. Hiding rather than removing keeps the page layout scripts from
// re-rendering; selectors that match nothing are no-ops.
const hideScript = `(selectors) => {
	for (const selector of selectors) {
		for (const el of document.querySelectorAll(selector)) {
			el.style.display = "none";
		}
	}
}`

// Renderer drives a headless Chrome session via go-rod. One browser and one
// page are lazily created and reused across all Render calls for throughput;
// Renderer is not safe for concurrent use.
type Renderer struct {
	log      zerolog.Logger
	timeout  time.Duration
	settle   time.Duration
	viewport Viewport

	browser *rod.Browser
	page    *rod.Page
}

// NewRenderer creates a Renderer with default timeouts. A zero viewport
// falls back to DefaultViewport.
func NewRenderer(log zerolog.Logger, viewport Viewport) *Renderer {
	if viewport == (Viewport{}) {
		viewport = DefaultViewport()
	}
	return &Renderer{
		log:      log.With().Str("component", "render").Logger(),
		timeout:  defaultRenderTimeout,
		settle:   defaultSettleWindow,
		viewport: viewport,
	}
}

// ensureSession lazily launches the browser and prepares the shared page.
func (r *Renderer) ensureSession() error {
	if r.page != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		return fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             r.viewport.Width,
		Height:            r.viewport.Height,
		DeviceScaleFactor: r.viewport.Scale,
		Mobile:            false,
	}); err != nil {
		_ = browser.Close()
		return fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
	}

	// Blank override replaces the default headless user-agent token.
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ""}); err != nil {
		_ = browser.Close()
		return fmt.Errorf("%w: setting user agent: %v", ErrPageCreate, err)
	}

	r.browser = browser
	r.page = page
	return nil
}

// Close releases the browser session. Safe to call without a session.
func (r *Renderer) Close() error {
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	r.page = nil
	return err
}

// Render navigates the shared page to pageURL, waits for network activity to
// settle, hides the given chrome selectors, and writes the page as a single
// PDF file at outputPath. Failures are returned to the caller; the shared
// session stays usable for subsequent URLs.
func (r *Renderer) Render(ctx context.Context, pageURL, outputPath string, hide []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.ensureSession(); err != nil {
		return err
	}

	p := r.page.Context(ctx).Timeout(r.timeout)

	wait := p.WaitRequestIdle(r.settle, nil, nil, nil)
	if err := p.Navigate(pageURL); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPageLoad, pageURL, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPageLoad, pageURL, err)
	}
	wait()

	if len(hide) > 0 {
		if _, err := p.Eval(hideScript, hide); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrPageEval, pageURL, err)
		}
	}

	reader, err := p.PDF(printOptions())
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPDFGeneration, pageURL, err)
	}

	buf, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	if err := os.WriteFile(outputPath, buf, 0o644); err != nil { // #nosec G306 -- rendered output is meant to be readable
		return fmt.Errorf("%w: writing %s: %v", ErrPDFGeneration, outputPath, err)
	}

	r.log.Debug().Str("url", pageURL).Str("path", outputPath).Int("bytes", len(buf)).Msg("rendered page")
	return nil
}

// printOptions builds the Chrome print settings: A4 at 100% scale with
// backgrounds, deferring to a CSS-declared @page size when the page has one.
func printOptions() *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		Scale:             floatPtr(1),
		PaperWidth:        floatPtr(a4WidthInches),
		PaperHeight:       floatPtr(a4HeightInches),
		PrintBackground:   true,
		PreferCSSPageSize: true,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
