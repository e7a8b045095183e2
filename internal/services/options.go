// Package services wires configuration into a ready listing engine.
package services

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/spanner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/light-bringer/catalog-listing/internal/app/listing/contracts"
	"github.com/light-bringer/catalog-listing/internal/app/listing/queries/local_listing"
	"github.com/light-bringer/catalog-listing/internal/app/listing/queries/remote_listing"
	"github.com/light-bringer/catalog-listing/internal/app/listing/repo"
	"github.com/light-bringer/catalog-listing/internal/config"
	"github.com/light-bringer/catalog-listing/internal/pkg/cache"
	"github.com/light-bringer/catalog-listing/internal/pkg/clock"
	"github.com/light-bringer/catalog-listing/internal/pkg/metrics"
	"github.com/light-bringer/catalog-listing/internal/transport/graphql"
)

const facetCachePrefix = "catalog-listing:"

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	Engine   contracts.ListingEngine
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	SpannerClient *spanner.Client
	RedisClient   *redis.Client

	logger *zap.Logger
}

// NewServiceOptions creates and wires up all application dependencies for
// the configured backend. The static backend evaluates in memory; spanner
// and graphql run the remote variant, optionally behind the Redis facet
// cache.
func NewServiceOptions(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*ServiceOptions, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// 1. Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	opts := &ServiceOptions{
		Registry: reg,
		Metrics:  metrics.New(reg),
		logger:   logger,
	}
	clk := clock.NewRealClock()

	// 2. Catalog backend and engine
	var backend contracts.CatalogBackend
	switch cfg.Catalog.Backend {
	case config.BackendStatic:
		source := repo.NewStaticCatalog(cfg.Catalog.File, logger.Named("catalog"))
		opts.Engine = local_listing.NewQuery(source,
			local_listing.WithLogger(logger.Named("local_listing")),
			local_listing.WithMetrics(opts.Metrics),
			local_listing.WithClock(clk),
		)
		if cfg.Redis.Addr != "" {
			logger.Info("facet cache ignored for the in-memory catalog")
		}
		return opts, nil

	case config.BackendSpanner:
		if cfg.Spanner.EmulatorHost != "" {
			// the Spanner client reads the emulator address from the environment
			if err := os.Setenv("SPANNER_EMULATOR_HOST", cfg.Spanner.EmulatorHost); err != nil {
				return nil, fmt.Errorf("failed to set emulator host: %w", err)
			}
		}
		client, err := spanner.NewClient(ctx, cfg.Spanner.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to create Spanner client: %w", err)
		}
		opts.SpannerClient = client
		backend = repo.NewSpannerCatalog(client, logger.Named("spanner"))

	case config.BackendGraphQL:
		client, err := graphql.NewClient(cfg.Remote.Endpoint, graphql.WithLogger(logger.Named("graphql")))
		if err != nil {
			return nil, err
		}
		backend = client

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Catalog.Backend)
	}

	// 3. Optional facet cache
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewClient(ctx, cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			opts.Close()
			return nil, err
		}
		opts.RedisClient = rdb
		store := cache.New(rdb, facetCachePrefix, cfg.Redis.FacetTTL)
		backend = repo.NewCachedFacets(backend, store, logger.Named("facet_cache"), opts.Metrics).
			WithLoadTimeout(cfg.Remote.Timeout)
	}

	opts.Engine = remote_listing.NewQuery(backend,
		remote_listing.WithTimeout(cfg.Remote.Timeout),
		remote_listing.WithLogger(logger.Named("remote_listing")),
		remote_listing.WithMetrics(opts.Metrics),
		remote_listing.WithClock(clk),
	)
	return opts, nil
}

// Ready reports whether the backing stores answer.
func (s *ServiceOptions) Ready(ctx context.Context) error {
	if s.SpannerClient != nil {
		iter := s.SpannerClient.Single().Query(ctx, spanner.Statement{SQL: "SELECT 1"})
		_, err := iter.Next()
		iter.Stop()
		if err != nil {
			return fmt.Errorf("spanner not ready: %w", err)
		}
	}
	if s.RedisClient != nil {
		if err := s.RedisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis not ready: %w", err)
		}
	}
	return nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
	if s.RedisClient != nil {
		if err := s.RedisClient.Close(); err != nil {
			s.logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
}
