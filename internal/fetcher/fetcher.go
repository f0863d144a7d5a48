// Package fetcher retrieves avto.net search-results pages. The site
// often answers 403 to cold requests, so every fetch first warms up a
// browsing session: hit the homepage, then the car category page, and
// carry the resulting cookies plus a category Referer into the real
// request.
package fetcher

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gocolly/colly/v2"
)

const (
	defaultSiteRoot    = "https://www.avto.net/"
	defaultCategoryURL = "https://www.avto.net/Ads/search_category.asp?SID=10000"

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	defaultTimeout = 30 * time.Second
)

// browserHeaders mimics a regular navigation request; avto.net's bot
// filter rejects bare client fingerprints.
var browserHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language":           "sl-SI,sl;q=0.9,en;q=0.8",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Sec-Fetch-User":            "?1",
}

// Config tunes the fetcher. Zero values select the avto.net defaults.
type Config struct {
	SiteRoot       string
	CategoryURL    string
	AllowedDomains []string
	Timeout        time.Duration
	RandomDelay    time.Duration
	Logger         *slog.Logger
}

// Fetcher owns the parent collector; per-fetch clones share its cookie
// jar and limit rules but get their own callbacks.
type Fetcher struct {
	collector   *colly.Collector
	siteRoot    string
	categoryURL string
	logger      *slog.Logger
}

func New(cfg Config) (*Fetcher, error) {
	if cfg.SiteRoot == "" {
		cfg.SiteRoot = defaultSiteRoot
	}
	if cfg.CategoryURL == "" {
		cfg.CategoryURL = defaultCategoryURL
	}
	if len(cfg.AllowedDomains) == 0 {
		cfg.AllowedDomains = []string{"www.avto.net", "avto.net"}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	c := colly.NewCollector(
		colly.AllowedDomains(cfg.AllowedDomains...),
		colly.UserAgent(browserUserAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(cfg.Timeout)

	if cfg.RandomDelay > 0 {
		err := c.Limit(&colly.LimitRule{
			DomainGlob:  "*",
			Parallelism: 1,
			RandomDelay: cfg.RandomDelay,
		})
		if err != nil {
			return nil, fmt.Errorf("fetcher: failed to set limit rule: %w", err)
		}
	}

	return &Fetcher{
		collector:   c,
		siteRoot:    cfg.SiteRoot,
		categoryURL: cfg.CategoryURL,
		logger:      cfg.Logger.With("component", "fetcher"),
	}, nil
}

// Fetch bootstraps a session and returns the HTML of the search-results
// page. Any transport error or non-success status, including during the
// warm-up requests, is a recoverable condition: the caller should treat
// it as "no data this cycle".
func (f *Fetcher) Fetch(targetURL string) (string, error) {
	c := f.collector.Clone()

	var (
		pageHTML     string
		fetchErr     error
		bootstrapped bool
	)

	c.OnRequest(func(r *colly.Request) {
		for key, value := range browserHeaders {
			r.Headers.Set(key, value)
		}
		if bootstrapped {
			r.Headers.Set("Referer", f.categoryURL)
		}
		f.logger.Debug("visiting", "url", r.URL.String())
	})

	c.OnResponse(func(r *colly.Response) {
		if bootstrapped {
			pageHTML = string(r.Body)
		}
		// Warm-up bodies are discarded; those visits exist only to
		// populate session cookies.
	})

	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("request to %s failed with status %d: %w", r.Request.URL, r.StatusCode, err)
	})

	for _, warmupURL := range []string{f.siteRoot, f.categoryURL} {
		if err := c.Visit(warmupURL); err != nil {
			return "", fmt.Errorf("session warm-up %s: %w", warmupURL, err)
		}
	}
	bootstrapped = true

	if err := c.Visit(targetURL); err != nil {
		return "", fmt.Errorf("fetch %s: %w", targetURL, err)
	}
	c.Wait()

	if fetchErr != nil {
		return "", fetchErr
	}
	return pageHTML, nil
}
