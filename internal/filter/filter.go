// Package filter applies the configured search constraints.
package filter

import (
	"strings"

	"avtowatch/internal/models"
)

// Matches reports whether the listing satisfies the criteria. Brand and
// model are case-insensitive substring tests against the title. Year
// bounds apply only when the listing's year is known: missing data
// never rejects a listing.
func Matches(listing models.Listing, criteria models.SearchCriteria) bool {
	title := strings.ToLower(listing.Title)

	if criteria.Brand != "" && !strings.Contains(title, strings.ToLower(criteria.Brand)) {
		return false
	}
	if criteria.Model != "" && !strings.Contains(title, strings.ToLower(criteria.Model)) {
		return false
	}

	if listing.Year != 0 {
		if criteria.YearMin > 0 && listing.Year < criteria.YearMin {
			return false
		}
		if criteria.YearMax > 0 && listing.Year > criteria.YearMax {
			return false
		}
	}

	return true
}
