package sitebook

import "strings"

// UnknownCategory is the fallback label for URLs too short to categorize.
const UnknownCategory = "unknown"

// Category position within the non-empty slash segments of a page URL.
// For https://host/docs/x/settings/page1 the segments are
// [https:, host, docs, x, settings, page1] and index 4 is "settings".
const (
	minCategorySegments  = 5
	categorySegmentIndex = 4
)

// CategoryOf derives the output subdirectory for a page URL.
// The URL is split on "/" with empty segments discarded; URLs with fewer
// than five segments fall back to UnknownCategory. The segment is returned
// verbatim, without decoding.
func CategoryOf(pageURL string) string {
	segments := nonEmptySegments(pageURL)
	if len(segments) < minCategorySegments {
		return UnknownCategory
	}
	return segments[categorySegmentIndex]
}

// SiteNameOf derives the site label from the configured base URL: the last
// non-empty slash segment. Used once per run for the output tree root.
func SiteNameOf(baseURL string) string {
	segments := nonEmptySegments(baseURL)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// nonEmptySegments splits on "/" and discards empty segments, so trailing
// slashes and the "//" after the scheme don't shift positions.
func nonEmptySegments(s string) []string {
	parts := strings.Split(s, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
