// Package pagination implements the 1-indexed page arithmetic shared by the
// listing queue and the audit trail.
package pagination

// Clamp normalizes caller-supplied page and limit, substituting defaultLimit
// for missing or nonsensical limits.
func Clamp(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

// Bounds returns the half-open slice window [start, end) for a page over a
// collection of total items. Out-of-range pages return an empty window
// rather than an error.
func Bounds(page, limit, total int) (start, end int) {
	start = (page - 1) * limit
	if start > total {
		start = total
	}
	end = start + limit
	if end > total {
		end = total
	}
	return start, end
}

// TotalPages returns ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit < 1 {
		return 0
	}
	return (total + limit - 1) / limit
}
