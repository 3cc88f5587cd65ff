package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scene-atlas/scene-search/internal/analytics"
	"github.com/scene-atlas/scene-search/internal/corpus"
	"github.com/scene-atlas/scene-search/internal/engine/index"
	"github.com/scene-atlas/scene-search/internal/engine/searcher"
	"github.com/scene-atlas/scene-search/internal/searchcache"
	"github.com/scene-atlas/scene-search/internal/server/handler"
	"github.com/scene-atlas/scene-search/internal/server/router"
	"github.com/scene-atlas/scene-search/pkg/config"
	pkgerrors "github.com/scene-atlas/scene-search/pkg/errors"
	"github.com/scene-atlas/scene-search/pkg/health"
	"github.com/scene-atlas/scene-search/pkg/kafka"
	"github.com/scene-atlas/scene-search/pkg/logger"
	"github.com/scene-atlas/scene-search/pkg/metrics"
	pkgpostgres "github.com/scene-atlas/scene-search/pkg/postgres"
	pkgredis "github.com/scene-atlas/scene-search/pkg/redis"
	"github.com/scene-atlas/scene-search/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting scene search service",
		"port", cfg.Server.Port,
		"corpus_source", cfg.Corpus.Source,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checker := health.NewChecker()

	source, pg, err := buildSource(ctx, cfg, checker)
	if err != nil {
		slog.Error("failed to open corpus source", "error", err)
		os.Exit(1)
	}
	if pg != nil {
		defer pg.Close()
	}

	records, err := source.Load(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %v", pkgerrors.ErrCorpusLoad, err)
		slog.Error("failed to load corpus", "error", err)
		os.Exit(1)
	}
	store := corpus.NewStore(records)

	buildStart := time.Now()
	idx := index.Build(store)
	buildTime := time.Since(buildStart)
	slog.Info("inverted index built",
		"records", store.Len(),
		"distinct_tokens", idx.TokenCount(),
		"build_time", buildTime,
	)

	engine := searcher.New(store, idx)
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		if idx.DocCount() != uint32(store.Len()) {
			return health.ComponentHealth{Status: health.StatusDown, Message: "index out of sync with corpus"}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		m.CorpusRecords.Set(float64(store.Len()))
		m.IndexTokens.Set(float64(idx.TokenCount()))
		m.IndexBuildSeconds.Set(buildTime.Seconds())
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdownMetrics(shutdownCtx)
		}()
	}

	cache := buildCache(ctx, cfg, checker)

	var collector *analytics.Collector
	if cfg.Analytics.Enabled {
		producer := kafka.NewProducer(cfg.Kafka)
		defer producer.Close()
		collector = analytics.NewCollector(producer, cfg.Analytics.BufferSize)
		collector.Start(ctx)
		defer collector.Close()
		slog.Info("analytics collector started", "topic", cfg.Kafka.Topic)
	}

	h := handler.New(engine, cfg.Search.PageSize, handler.Options{
		Cache:     cache,
		Collector: collector,
		Metrics:   m,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router.New(h, checker, m, cfg.Server.RequestTimeout),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		slog.Error("http server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown failed", "error", err)
	}
	slog.Info("scene search service stopped")
}

// buildSource opens the configured corpus source. Postgres connections are
// retried with backoff since the database may still be starting alongside
// the service.
func buildSource(ctx context.Context, cfg *config.Config, checker *health.Checker) (corpus.Source, *pkgpostgres.Client, error) {
	switch cfg.Corpus.Source {
	case config.SourcePostgres:
		var client *pkgpostgres.Client
		err := resilience.Retry(ctx, "postgres-connect", resilience.RetryConfig{MaxAttempts: 5}, func() error {
			var err error
			client, err = pkgpostgres.New(cfg.Postgres)
			return err
		})
		if err != nil {
			return nil, nil, err
		}
		checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
			if err := client.Ping(ctx); err != nil {
				return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
		source, err := corpus.NewPostgresSource(client, cfg.Corpus.Table)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		return source, client, nil
	default:
		return corpus.NewDirSource(cfg.Corpus.Dir), nil, nil
	}
}

// buildCache connects the optional Redis query cache. Redis being down only
// disables caching; the service still serves from the in-memory engine.
func buildCache(ctx context.Context, cfg *config.Config, checker *health.Checker) *searchcache.Cache {
	if !cfg.Redis.Enabled {
		return nil
	}
	var client *pkgredis.Client
	err := resilience.Retry(ctx, "redis-connect", resilience.RetryConfig{MaxAttempts: 3}, func() error {
		var err error
		client, err = pkgredis.NewClient(cfg.Redis)
		return err
	})
	if err != nil {
		slog.Warn("redis unavailable, search caching disabled", "error", err)
		return nil
	}
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if err := client.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	slog.Info("search cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	return searchcache.New(client, cfg.Redis)
}
