// Package router wires up the service routes and applies the middleware
// chain (RequestID → Metrics → Timeout).
package router

import (
	"net/http"
	"time"

	"github.com/scene-atlas/scene-search/internal/server/handler"
	"github.com/scene-atlas/scene-search/pkg/health"
	"github.com/scene-atlas/scene-search/pkg/metrics"
	"github.com/scene-atlas/scene-search/pkg/middleware"
)

// New builds the full HTTP handler.
//
// Route table:
//
//	GET /api/v1/search        → keyword + filter search, paginated
//	GET /api/v1/corpus/stats  → corpus and cache statistics
//	GET /healthz              → liveness probe
//	GET /readyz               → readiness probe (runs dependency checks)
func New(h *handler.Handler, checker *health.Checker, m *metrics.Metrics, requestTimeout time.Duration) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/corpus/stats", h.CorpusStats)
	mux.HandleFunc("GET /healthz", checker.LiveHandler())
	mux.HandleFunc("GET /readyz", checker.ReadyHandler())

	// Middleware applied inside-out: request → RequestID → Metrics → Timeout → mux.
	var chain http.Handler = mux
	if requestTimeout > 0 {
		chain = middleware.Timeout(requestTimeout)(chain)
	}
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.RequestID(chain)
	return chain
}
