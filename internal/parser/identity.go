package parser

import (
	"net/url"
	"strings"
)

// ListingID derives the stable dedup key for a listing from its URL:
// the last non-empty path segment. A link whose path has no segments is
// its own identity, so every listing always gets a usable key.
func ListingID(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return link
	}
	last := ""
	for _, part := range strings.Split(parsed.Path, "/") {
		if part != "" {
			last = part
		}
	}
	if last == "" {
		return link
	}
	return last
}
