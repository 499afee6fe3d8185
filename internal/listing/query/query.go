// Package query derives filtered, searched, paginated views over a snapshot
// of the listing queue. It never mutates the snapshot.
package query

import (
	"strings"

	"modqueue/internal/listing/models"
	"modqueue/pkg/pagination"
)

// DefaultLimit is the page size when the caller supplies none.
const DefaultLimit = 10

// Params selects a page of the moderation queue.
type Params struct {
	// Status keeps only matching records; empty or "all" means no filter.
	Status string
	// Search is a case-insensitive substring match over title, description
	// and location.
	Search string
	Page   int
	Limit  int
}

// Stats counts listings per workflow state. Computed over the
// search-filtered but status-UNfiltered set: the status dropdown must not
// distort the stat tiles.
type Stats struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// Result is one page of the queue plus the aggregate counts.
type Result struct {
	Items      []models.Listing
	TotalItems int
	TotalPages int
	Stats      Stats
}

// List applies filter, search and pagination over the snapshot.
func List(listings []models.Listing, p Params) Result {
	searched := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if matchesSearch(l, p.Search) {
			searched = append(searched, l)
		}
	}

	// Stats come from the searched set before the status filter narrows it.
	var stats Stats
	for _, l := range searched {
		switch l.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusApproved:
			stats.Approved++
		case models.StatusRejected:
			stats.Rejected++
		}
	}

	filtered := searched
	if p.Status != "" && p.Status != models.StatusAll {
		filtered = make([]models.Listing, 0, len(searched))
		for _, l := range searched {
			if l.Status == p.Status {
				filtered = append(filtered, l)
			}
		}
	}

	page, limit := pagination.Clamp(p.Page, p.Limit, DefaultLimit)
	start, end := pagination.Bounds(page, limit, len(filtered))

	return Result{
		Items:      filtered[start:end],
		TotalItems: len(filtered),
		TotalPages: pagination.TotalPages(len(filtered), limit),
		Stats:      stats,
	}
}

// matchesSearch checks the lowercased concatenation of the text fields, so
// a search term may span a field boundary. That mirrors the long-standing
// behavior of the listing dashboard.
func matchesSearch(l models.Listing, search string) bool {
	if search == "" {
		return true
	}
	haystack := strings.ToLower(l.Title + " " + l.Description + " " + l.Location)
	return strings.Contains(haystack, strings.ToLower(search))
}
