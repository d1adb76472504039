package sitebook

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// coverHTMLBuilder abstracts cover composition to enable testing the
// orchestrator without goldmark output assertions.
type coverHTMLBuilder interface {
	BuildHTML(site string, generated time.Time, pages []PageResult) (string, error)
}

// coverTemplate wraps the rendered fragment in a complete HTML5 document.
const coverTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 3em; }
h1 { font-size: 2.4em; }
li { line-height: 1.6; }
</style>
</head>
<body>
%s
</body>
</html>`

// CoverBuilder composes the combined document's cover page: a Markdown run
// summary converted to HTML, rendered through the same browser session as
// the crawled pages.
type CoverBuilder struct {
	md goldmark.Markdown
}

// NewCoverBuilder creates a CoverBuilder with GFM extensions and syntax
// highlighting, so site names and URLs render as proper links and any code
// spans in category labels stay readable.
func NewCoverBuilder() *CoverBuilder {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)
	return &CoverBuilder{md: md}
}

// BuildHTML renders the run summary for site as a standalone HTML document.
// Pages are grouped by category in first-seen order; only successfully
// rendered pages are listed.
func (b *CoverBuilder) BuildHTML(site string, generated time.Time, pages []PageResult) (string, error) {
	source := buildCoverMarkdown(site, generated, pages)

	var buf bytes.Buffer
	if err := b.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCoverBuild, err)
	}

	return fmt.Sprintf(coverTemplate, site, buf.String()), nil
}

// buildCoverMarkdown assembles the Markdown source for the cover page.
func buildCoverMarkdown(site string, generated time.Time, pages []PageResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", site)
	fmt.Fprintf(&sb, "Generated %s\n\n", generated.Format("2006-01-02"))
	sb.WriteString("## Contents\n\n")

	var order []string
	grouped := make(map[string][]PageResult)
	for _, page := range pages {
		if page.Err != nil {
			continue
		}
		if _, seen := grouped[page.Category]; !seen {
			order = append(order, page.Category)
		}
		grouped[page.Category] = append(grouped[page.Category], page)
	}

	for _, category := range order {
		fmt.Fprintf(&sb, "### %s\n\n", category)
		for _, page := range grouped[category] {
			fmt.Fprintf(&sb, "- Page %d: <%s>\n", page.Ordinal, page.URL)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
