package parser

import (
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"avtowatch/internal/models"
)

const (
	baseURL = "https://www.avto.net"

	// ListingPathMarker identifies ad detail links on avto.net; a
	// candidate whose href lacks it is not a listing.
	ListingPathMarker = "/oglasi/"

	yearLabel     = "Letnik"
	currencyMark  = "€"
	priceSentinel = "N/A"
)

// containersFunc is one container-discovery strategy: given a parsed
// document it returns the candidate listing containers it recognizes.
type containersFunc func(doc *goquery.Document) []*goquery.Selection

type containerStrategy struct {
	name string
	find containersFunc
}

// containerChain is the ordered fallback for locating ad containers.
// avto.net's markup is not stable, so each tier is a best-effort guess
// and later tiers are strictly less precise. The first tier that yields
// at least one container wins.
var containerChain = []containerStrategy{
	{"results-row", bySelector("div.GO-Results-Row")},
	{"results-row-data", bySelector("div.GO-Results-Row-Data")},
	{"data-id", bySelector("div[data-id]")},
	{"article", bySelector("article")},
	{"link-parent", listingLinkParents},
}

func bySelector(selector string) containersFunc {
	return func(doc *goquery.Document) []*goquery.Selection {
		var out []*goquery.Selection
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			out = append(out, s)
		})
		return out
	}
}

// listingLinkParents is the last-resort strategy: the parent of every
// anchor that points at an ad detail page.
func listingLinkParents(doc *goquery.Document) []*goquery.Selection {
	var out []*goquery.Selection
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if strings.Contains(href, ListingPathMarker) {
			out = append(out, s.Parent())
		}
	})
	return out
}

// Extractor converts raw search-results HTML into structured listings.
type Extractor struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger.With("component", "parser")}
}

// Extract parses the page and returns every listing it can recognize.
// Empty or unparsable input yields an empty result, never an error; a
// container that cannot be interpreted is dropped on its own.
func (e *Extractor) Extract(htmlContent string) []models.Listing {
	if strings.TrimSpace(htmlContent) == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		e.logger.Warn("failed to parse HTML document", "error", err)
		return nil
	}

	var containers []*goquery.Selection
	for _, strategy := range containerChain {
		containers = strategy.find(doc)
		if len(containers) > 0 {
			e.logger.Debug("found listing containers", "strategy", strategy.name, "count", len(containers))
			break
		}
	}

	var listings []models.Listing
	for _, container := range containers {
		listing, ok := e.parseContainer(container)
		if !ok || listing.ID == "" {
			continue
		}
		listings = append(listings, listing)
	}
	return listings
}

// parseContainer extracts a single listing from one container element.
// The boolean result is false when the container is not a usable ad.
func (e *Extractor) parseContainer(container *goquery.Selection) (models.Listing, bool) {
	anchor := findTitleAnchor(container)
	if anchor == nil {
		return models.Listing{}, false
	}

	title := strings.TrimSpace(anchor.Text())
	if title == "" {
		return models.Listing{}, false
	}

	href, _ := anchor.Attr("href")
	if href == "" || !strings.Contains(href, ListingPathMarker) {
		return models.Listing{}, false
	}

	link := normalizeURL(href)
	return models.Listing{
		ID:    ListingID(link),
		Title: title,
		Link:  link,
		Year:  extractYear(container),
		Price: extractPrice(container),
	}, true
}

// findTitleAnchor locates the anchor carrying the listing title and
// link, cascading from the most to the least specific candidate.
func findTitleAnchor(container *goquery.Selection) *goquery.Selection {
	if goquery.NodeName(container) == "a" {
		return container
	}
	if a := container.Find("a.stretched-link").First(); a.Length() > 0 {
		return a
	}
	if a := container.Find(`a[href*="` + ListingPathMarker + `"]`).First(); a.Length() > 0 {
		return a
	}
	if a := container.Find("a").First(); a.Length() > 0 {
		return a
	}
	return nil
}

// extractYear finds the "Letnik"-labeled fragment and pulls a 4-digit
// year out of it. Returns 0 when no such token exists; a non-numeric
// label value is not an error, just an unknown year.
func extractYear(container *goquery.Selection) int {
	yearText := ""
	container.Find("span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		if strings.Contains(span.Text(), yearLabel) {
			yearText = span.Text()
			return false
		}
		return true
	})
	if yearText == "" {
		for _, text := range textNodes(container) {
			if strings.Contains(text, yearLabel) {
				yearText = text
				break
			}
		}
	}
	return yearFromText(yearText)
}

// yearFromText scans whitespace-delimited tokens from the end for the
// first 4-digit number.
func yearFromText(text string) int {
	parts := strings.Fields(text)
	for i := len(parts) - 1; i >= 0; i-- {
		part := parts[i]
		if len(part) != 4 {
			continue
		}
		year, err := strconv.Atoi(part)
		if err != nil || part[0] == '+' || part[0] == '-' {
			continue
		}
		return year
	}
	return 0
}

// extractPrice reads the displayed price text, falling back from the
// price-class markers to the first text fragment carrying a currency
// symbol. avto.net shows formatted text, no number parsing here.
func extractPrice(container *goquery.Selection) string {
	for _, selector := range []string{"span.cena", "div.cena"} {
		node := container.Find(selector).First()
		if node.Length() == 0 {
			continue
		}
		if text := strings.TrimSpace(node.Text()); text != "" {
			return text
		}
	}
	for _, text := range textNodes(container) {
		if strings.Contains(text, currencyMark) {
			return strings.TrimSpace(text)
		}
	}
	return priceSentinel
}

// textNodes collects the non-blank text nodes of the selection's
// subtree in document order.
func textNodes(s *goquery.Selection) []string {
	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				out = append(out, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range s.Nodes {
		walk(node)
	}
	return out
}

// normalizeURL resolves an ad href against the site base URL.
func normalizeURL(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "/") {
		return baseURL + href
	}
	parsed, err := url.Parse(href)
	if err != nil || !parsed.IsAbs() {
		return baseURL + "/" + href
	}
	return href
}
