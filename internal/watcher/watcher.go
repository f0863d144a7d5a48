// Package watcher sequences one idempotent discovery pass:
// load seen → fetch → extract → filter → diff → notify → persist.
package watcher

import (
	"log/slog"

	"avtowatch/internal/config"
	"avtowatch/internal/filter"
	"avtowatch/internal/models"
)

// PageFetcher retrieves the search-results HTML. An error means "no
// data this cycle", not a fatal condition.
type PageFetcher interface {
	Fetch(url string) (string, error)
}

// Extractor converts results HTML into listings.
type Extractor interface {
	Extract(html string) []models.Listing
}

// FeedFetcher retrieves listings from the RSS path; it reports trouble
// by returning an empty slice.
type FeedFetcher interface {
	Fetch(url string) []models.Listing
}

// SeenStore persists the notified-identity set between runs.
type SeenStore interface {
	Load() map[string]struct{}
	Save(seen map[string]struct{}) error
}

// Notifier announces one new listing; it never fails from the caller's
// perspective.
type Notifier interface {
	Notify(listing models.Listing)
}

// Watcher runs the discovery pipeline. All collaborators are injected;
// the watcher itself holds no mutable state between runs.
type Watcher struct {
	cfg       *config.Config
	fetcher   PageFetcher
	extractor Extractor
	feed      FeedFetcher
	store     SeenStore
	notifier  Notifier
	logger    *slog.Logger
}

func New(cfg *config.Config, fetcher PageFetcher, extractor Extractor, feed FeedFetcher, store SeenStore, notifier Notifier, logger *slog.Logger) *Watcher {
	return &Watcher{
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: extractor,
		feed:      feed,
		store:     store,
		notifier:  notifier,
		logger:    logger.With("component", "watcher"),
	}
}

// Run performs one pass. A failed or empty fetch ends the run cleanly
// with the seen file untouched; every later stage degrades instead of
// failing. Nothing here is fatal to the process: the next scheduled run
// re-extracts whatever this one missed.
func (w *Watcher) Run() {
	seen := w.store.Load()
	w.logger.Info("loaded seen listing ids", "count", len(seen))

	listings, ok := w.discover()
	if !ok {
		return
	}
	w.logger.Info("discovered listings", "count", len(listings), "source", string(w.cfg.Source))

	matched := make([]models.Listing, 0, len(listings))
	for _, listing := range listings {
		if filter.Matches(listing, w.cfg.Criteria) {
			matched = append(matched, listing)
		}
	}
	w.logger.Info("filtered listings", "count", len(matched))

	// Diff against the seen set, preserving discovery order. Duplicate
	// identities within one page collapse to the first occurrence.
	var fresh []models.Listing
	inRun := make(map[string]struct{})
	for _, listing := range matched {
		if listing.ID == "" {
			continue
		}
		if _, exists := seen[listing.ID]; exists {
			continue
		}
		if _, exists := inRun[listing.ID]; exists {
			continue
		}
		inRun[listing.ID] = struct{}{}
		fresh = append(fresh, listing)
	}
	w.logger.Info("new listings", "count", len(fresh))

	// Mark each identity right after its notification goes out, so a
	// partially completed loop still persists what was processed.
	for _, listing := range fresh {
		w.logger.Info("sending notification", "id", listing.ID, "title", listing.Title)
		w.notifier.Notify(listing)
		seen[listing.ID] = struct{}{}
	}

	if len(fresh) == 0 {
		w.logger.Info("no new listings, seen file unchanged")
		return
	}

	if err := w.store.Save(seen); err != nil {
		// Worst case the next run re-notifies; not worth failing over.
		w.logger.Error("failed to persist seen ids", "error", err)
		return
	}
	w.logger.Info("updated seen file", "total", len(seen))
}

// discover runs the configured ingestion path. The boolean is false
// when this cycle produced no data and the run should end cleanly.
func (w *Watcher) discover() ([]models.Listing, bool) {
	if w.cfg.Source == config.SourceRSS {
		listings := w.feed.Fetch(w.cfg.FeedURL)
		if len(listings) == 0 {
			w.logger.Warn("no feed entries fetched, skipping this run")
			return nil, false
		}
		return listings, true
	}

	html, err := w.fetcher.Fetch(w.cfg.SearchURL)
	if err != nil {
		w.logger.Warn("failed to fetch results page, skipping this run", "error", err)
		return nil, false
	}
	return w.extractor.Extract(html), true
}
