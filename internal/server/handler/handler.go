// Package handler implements the HTTP boundary of the search service. It
// converts query parameters into engine requests, consults the query cache,
// and renders results as JSON.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/scene-atlas/scene-search/internal/analytics"
	"github.com/scene-atlas/scene-search/internal/engine/searcher"
	"github.com/scene-atlas/scene-search/internal/searchcache"
	pkgerrors "github.com/scene-atlas/scene-search/pkg/errors"
	"github.com/scene-atlas/scene-search/pkg/logger"
	"github.com/scene-atlas/scene-search/pkg/metrics"
	"github.com/scene-atlas/scene-search/pkg/middleware"
)

var errInvalidPage = pkgerrors.New(pkgerrors.ErrInvalidInput, http.StatusBadRequest, "page must be a positive integer")

// Engine is the search entry point the handler depends on.
type Engine interface {
	Search(ctx context.Context, req searcher.Request) (*searcher.Result, error)
}

// Handler serves the search API.
type Handler struct {
	engine    Engine
	cache     *searchcache.Cache
	collector *analytics.Collector
	metrics   *metrics.Metrics
	pageSize  int
	logger    *slog.Logger
}

// Options carries the optional collaborators; nil fields disable the
// corresponding feature.
type Options struct {
	Cache     *searchcache.Cache
	Collector *analytics.Collector
	Metrics   *metrics.Metrics
}

// New creates a Handler around the engine with the given page size.
func New(engine Engine, pageSize int, opts Options) *Handler {
	if pageSize < 1 {
		pageSize = searcher.DefaultPageSize
	}
	return &Handler{
		engine:    engine,
		cache:     opts.Cache,
		collector: opts.Collector,
		metrics:   opts.Metrics,
		pageSize:  pageSize,
		logger:    slog.Default().With("component", "search-handler"),
	}
}

// Search handles GET /api/v1/search. All parameters are optional; with none,
// it returns the first page of the whole corpus.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	req, err := h.parseRequest(r)
	if err != nil {
		h.writeError(w, pkgerrors.HTTPStatusCode(err), err.Error())
		return
	}

	var result *searcher.Result
	cacheHit := false
	if h.cache != nil {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, req, func() (*searcher.Result, error) {
			return h.engine.Search(ctx, req)
		})
	} else {
		result, err = h.engine.Search(ctx, req)
	}
	if err != nil {
		log.Error("search execution failed", "query", req.Query, "error", err)
		h.observe(start, "error", nil, cacheHit)
		h.writeError(w, pkgerrors.HTTPStatusCode(err), "search failed")
		return
	}

	latency := time.Since(start)
	log.Info("search completed",
		"query", req.Query,
		"filters_active", req.Filters.Active(),
		"total_results", result.TotalResults,
		"returned", len(result.Records),
		"page", result.Page,
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)

	outcome := "hit"
	if result.TotalResults == 0 {
		outcome = "zero_result"
	}
	h.observe(start, outcome, result, cacheHit)

	if h.collector != nil {
		eventType := analytics.EventCacheMiss
		if cacheHit {
			eventType = analytics.EventCacheHit
		}
		h.collector.Track(analytics.SearchEvent{
			Type:          eventType,
			Query:         req.Query,
			FiltersActive: req.Filters.Active(),
			Page:          result.Page,
			TotalResults:  result.TotalResults,
			Returned:      len(result.Records),
			LatencyMs:     latency.Milliseconds(),
			CacheHit:      cacheHit,
			RequestID:     middleware.GetRequestID(ctx),
			Timestamp:     time.Now().UTC(),
		})
	}

	h.writeJSON(w, http.StatusOK, result)
}

// CorpusStats handles GET /api/v1/corpus/stats.
func (h *Handler) CorpusStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]any{
		"page_size": h.pageSize,
	}
	if s, ok := h.engine.(*searcher.Searcher); ok {
		stats["records"] = s.Store().Len()
		stats["distinct_tokens"] = s.Index().TokenCount()
	}
	if h.cache != nil {
		hits, misses := h.cache.Stats()
		stats["cache_hits"] = hits
		stats["cache_misses"] = misses
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// parseRequest maps URL query parameters onto a searcher.Request. The page
// parameter must be a positive integer when present; everything else is free
// text and passed through as-is.
func (h *Handler) parseRequest(r *http.Request) (searcher.Request, error) {
	q := r.URL.Query()
	req := searcher.Request{
		Query: q.Get("q"),
		Filters: searcher.Filters{
			SceneDescription:     q.Get("f_scene_desc"),
			SceneInterpretation:  q.Get("f_scene_interp"),
			SpatialContext:       q.Get("f_spatial"),
			ArchitecturalContext: q.Get("f_arch"),
			BuildingTypes:        q.Get("f_buildings"),
			ArchitecturalElems:   q.Get("f_elements"),
			Persons:              q.Get("f_persons"),
		},
		Page:     1,
		PageSize: h.pageSize,
	}
	if pageStr := q.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return searcher.Request{}, errInvalidPage
		}
		req.Page = page
	}
	return req, nil
}

func (h *Handler) observe(start time.Time, outcome string, result *searcher.Result, cacheHit bool) {
	if h.metrics == nil {
		return
	}
	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
		h.metrics.CacheHitsTotal.Inc()
	} else if h.cache != nil {
		h.metrics.CacheMissesTotal.Inc()
	}
	h.metrics.SearchQueriesTotal.WithLabelValues(outcome).Inc()
	h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(time.Since(start).Seconds())
	if result != nil {
		h.metrics.SearchResultsCount.Observe(float64(result.TotalResults))
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("writing response failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
