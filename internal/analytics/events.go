// Package analytics publishes search events to Kafka for offline analysis of
// query behaviour. Tracking is fire-and-forget: a full buffer drops events
// rather than slowing the query path.
package analytics

import "time"

// Event types emitted by the search handler.
const (
	EventSearch    = "search"
	EventCacheHit  = "cache_hit"
	EventCacheMiss = "cache_miss"
)

// SearchEvent describes one executed search.
type SearchEvent struct {
	Type          string    `json:"type"`
	Query         string    `json:"query"`
	FiltersActive bool      `json:"filters_active"`
	Page          int       `json:"page"`
	TotalResults  int       `json:"total_results"`
	Returned      int       `json:"returned"`
	LatencyMs     int64     `json:"latency_ms"`
	CacheHit      bool      `json:"cache_hit"`
	RequestID     string    `json:"request_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
