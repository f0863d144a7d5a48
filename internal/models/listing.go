package models

// Listing represents an individual car ad discovered on avto.net.
type Listing struct {
	// ID is the stable dedup key, derived from the last path segment of
	// the canonical listing URL.
	ID    string `json:"id"`
	Title string `json:"title"`
	Link  string `json:"link"`
	// Year is 0 when it could not be extracted from the ad markup.
	Year  int    `json:"year,omitempty"`
	Price string `json:"price"`
	// Published carries the raw publication date on the RSS path; the
	// scraper path leaves it empty.
	Published string `json:"published,omitempty"`
}

// SearchCriteria narrows discovered listings. Zero values mean no
// constraint: empty brand/model match everything and a year bound of 0
// is unbounded.
type SearchCriteria struct {
	Brand   string
	Model   string
	YearMin int
	YearMax int
}
