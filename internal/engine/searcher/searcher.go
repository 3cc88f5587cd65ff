// Package searcher composes the query path of the engine: keyword resolution
// against the inverted index, field filtering, and pagination. A Searcher is
// an immutable view over the loaded corpus and its index; every operation is
// a pure read, safe for unbounded concurrent use.
package searcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/scene-atlas/scene-search/internal/corpus"
	"github.com/scene-atlas/scene-search/internal/engine/index"
	"github.com/scene-atlas/scene-search/pkg/errors"
)

// Request is one search invocation: an optional free-text query, the per-field
// filters, and the 1-indexed page to return. PageSize 0 means the default.
type Request struct {
	Query    string  `json:"query"`
	Filters  Filters `json:"filters"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

// Result is one page of matching records plus the totals the presentation
// layer needs for pagination controls.
type Result struct {
	Records      []corpus.Record `json:"records"`
	Page         int             `json:"page"`
	PageSize     int             `json:"page_size"`
	TotalResults int             `json:"total_results"`
	TotalPages   int             `json:"total_pages"`
}

// Searcher is the engine's query-path entry point, built once at startup and
// injected into every handler.
type Searcher struct {
	store  *corpus.Store
	index  *index.Index
	logger *slog.Logger
}

// New wires a Searcher over an already-built store and index.
func New(store *corpus.Store, idx *index.Index) *Searcher {
	return &Searcher{
		store:  store,
		index:  idx,
		logger: slog.Default().With("component", "searcher"),
	}
}

// Store returns the underlying corpus store.
func (s *Searcher) Store() *corpus.Store {
	return s.store
}

// Index returns the underlying inverted index.
func (s *Searcher) Index() *index.Index {
	return s.index
}

// Search resolves the keyword query, applies the field filters in ascending
// corpus order, and returns the requested page.
func (s *Searcher) Search(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrTimeout, err)
	}
	start := time.Now()

	candidates := Resolve(s.index, req.Query)
	matched := req.Filters.Apply(candidates, s.store)
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	pageSlice, totalResults, totalPages := Paginate(matched, req.Page, pageSize)

	page := req.Page
	if page < 1 {
		page = 1
	}
	s.logger.Debug("search executed",
		"query", req.Query,
		"filters_active", req.Filters.Active(),
		"candidates", candidates.GetCardinality(),
		"total_results", totalResults,
		"page", page,
		"latency", time.Since(start),
	)
	return &Result{
		Records:      pageSlice,
		Page:         page,
		PageSize:     pageSize,
		TotalResults: totalResults,
		TotalPages:   totalPages,
	}, nil
}
