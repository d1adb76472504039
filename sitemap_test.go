package sitebook

// Notes:
// - Sitemap fixtures are served from httptest servers; no real network access
// - Index tests count per-path hits to prove siblings are never fetched

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

const leafSitemap = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/docs/x/settings/page1</loc></url>
  <url><loc>https://example.com/docs/x/android/page2</loc></url>
  <url><lastmod>2024-01-01</lastmod></url>
  <url><loc>  </loc></url>
  <url><loc>https://example.com/docs/x/ios/page3</loc></url>
</urlset>`

func newTestResolver() *Resolver {
	return NewResolver(zerolog.Nop())
}

func TestResolverLeafSitemap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, leafSitemap)
	}))
	defer srv.Close()

	var logs bytes.Buffer
	resolver := NewResolver(zerolog.New(&logs))

	got, err := resolver.Resolve(context.Background(), srv.URL+"/sitemap.xml")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := []string{
		"https://example.com/docs/x/settings/page1",
		"https://example.com/docs/x/android/page2",
		"https://example.com/docs/x/ios/page3",
	}
	if len(got) != len(want) {
		t.Fatalf("Resolve() returned %d URLs, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Resolve()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// One warning per dropped entry: the <lastmod>-only one and the
	// whitespace-<loc> one.
	if warns := strings.Count(logs.String(), "dropping sitemap entry without"); warns != 2 {
		t.Errorf("dropped-entry warnings = %d, want 2; log output:\n%s", warns, logs.String())
	}
}

func TestResolverIndexFollowsFirstOnly(t *testing.T) {
	var hitsA, hitsB, hitsC atomic.Int32

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/index.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<sitemapindex>
  <sitemap><loc>%s/a.xml</loc></sitemap>
  <sitemap><loc>%s/b.xml</loc></sitemap>
  <sitemap><loc>%s/c.xml</loc></sitemap>
</sitemapindex>`, srv.URL, srv.URL, srv.URL)
	})
	mux.HandleFunc("/a.xml", func(w http.ResponseWriter, r *http.Request) {
		hitsA.Add(1)
		fmt.Fprint(w, `<urlset><url><loc>https://example.com/docs/x/settings/p1</loc></url></urlset>`)
	})
	mux.HandleFunc("/b.xml", func(w http.ResponseWriter, r *http.Request) { hitsB.Add(1) })
	mux.HandleFunc("/c.xml", func(w http.ResponseWriter, r *http.Request) { hitsC.Add(1) })

	got, err := newTestResolver().Resolve(context.Background(), srv.URL+"/index.xml")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(got) != 1 || got[0] != "https://example.com/docs/x/settings/p1" {
		t.Errorf("Resolve() = %v, want the first sub-sitemap's single URL", got)
	}
	if hitsA.Load() != 1 {
		t.Errorf("sub-sitemap A fetched %d times, want 1", hitsA.Load())
	}
	if hitsB.Load() != 0 || hitsC.Load() != 0 {
		t.Errorf("sibling sub-sitemaps fetched (B=%d, C=%d), want never", hitsB.Load(), hitsC.Load())
	}
}

func TestResolverIndexOfIndex(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/outer.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<sitemapindex><sitemap><loc>%s/inner.xml</loc></sitemap></sitemapindex>`, srv.URL)
	})
	mux.HandleFunc("/inner.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<sitemapindex><sitemap><loc>%s/leaf.xml</loc></sitemap></sitemapindex>`, srv.URL)
	})
	mux.HandleFunc("/leaf.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<urlset><url><loc>https://example.com/a/b/c/d</loc></url></urlset>`)
	})

	got, err := newTestResolver().Resolve(context.Background(), srv.URL+"/outer.xml")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Resolve() = %v, want one URL from the leaf", got)
	}
}

func TestResolverFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name:    "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := newTestResolver().Resolve(context.Background(), srv.URL)
			if !errors.Is(err, ErrSitemapFetch) {
				t.Errorf("Resolve() error = %v, want ErrSitemapFetch", err)
			}
		})
	}
}

func TestResolverUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestResolver().Resolve(context.Background(), url)
	if !errors.Is(err, ErrSitemapFetch) {
		t.Errorf("Resolve() error = %v, want ErrSitemapFetch", err)
	}
}

func TestResolverFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "not XML at all",
			body: "this is not xml",
		},
		{
			name: "unrecognized root element",
			body: `<feed><entry>x</entry></feed>`,
		},
		{
			name: "index with no entries",
			body: `<sitemapindex></sitemapindex>`,
		},
		{
			name: "index first entry missing loc",
			body: `<sitemapindex><sitemap><lastmod>2024-01-01</lastmod></sitemap></sitemapindex>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			_, err := newTestResolver().Resolve(context.Background(), srv.URL)
			if !errors.Is(err, ErrSitemapFormat) {
				t.Errorf("Resolve() error = %v, want ErrSitemapFormat", err)
			}
		})
	}
}
