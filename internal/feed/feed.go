// Package feed implements the RSS ingestion path. The feed schema is
// stable, so entries map directly to listings without the cascading
// markup extraction the scraper path needs.
package feed

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"avtowatch/internal/models"
	"avtowatch/internal/parser"
)

const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	feedAccept       = "application/rss+xml, application/xml, text/xml, */*"

	fetchTimeout = 30 * time.Second
)

// Client fetches and decodes the avto.net results RSS feed.
type Client struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	logger     *slog.Logger
}

func New(logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: fetchTimeout},
		parser:     gofeed.NewParser(),
		logger:     logger.With("component", "feed"),
	}
}

// Fetch returns the feed entries as listings. Entries without a link
// are dropped; a fetch or parse failure yields an empty result and a
// log line, never an error to the caller.
func (c *Client) Fetch(feedURL string) []models.Listing {
	req, err := http.NewRequest(http.MethodGet, feedURL, nil)
	if err != nil {
		c.logger.Warn("invalid feed URL", "url", feedURL, "error", err)
		return nil
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", feedAccept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("error fetching feed", "url", feedURL, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("error fetching feed", "url", feedURL, "error", fmt.Errorf("unexpected status %d", resp.StatusCode))
		return nil
	}

	parsed, err := c.parser.Parse(resp.Body)
	if err != nil {
		c.logger.Warn("error parsing feed", "url", feedURL, "error", err)
		return nil
	}

	var listings []models.Listing
	for _, item := range parsed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		listings = append(listings, models.Listing{
			ID:        parser.ListingID(link),
			Title:     strings.TrimSpace(item.Title),
			Link:      link,
			Price:     "N/A",
			Published: strings.TrimSpace(item.Published),
		})
	}
	return listings
}
