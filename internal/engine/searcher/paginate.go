package searcher

import "github.com/scene-atlas/scene-search/internal/corpus"

// DefaultPageSize is the number of records per result page unless configured
// otherwise.
const DefaultPageSize = 48

// Paginate slices the ordered result list into 1-indexed fixed-size pages.
// totalPages is at least 1 even for zero results. A page past the end yields
// an empty slice with the counts intact; page values below 1 clamp to 1.
func Paginate(results []corpus.Record, page, pageSize int) (pageSlice []corpus.Record, totalResults, totalPages int) {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	totalResults = len(results)
	totalPages = (totalResults + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	// Bound the page before computing the offset: (page-1)*pageSize can
	// overflow for arbitrary caller-supplied page numbers.
	if page > totalPages {
		return []corpus.Record{}, totalResults, totalPages
	}
	start := (page - 1) * pageSize
	if start >= totalResults {
		return []corpus.Record{}, totalResults, totalPages
	}
	end := start + pageSize
	if end > totalResults {
		end = totalResults
	}
	return results[start:end], totalResults, totalPages
}
