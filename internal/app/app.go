package app

import (
	"context"
	"fmt"

	"github.com/planespot/metar-backend/internal/cache"
	"github.com/planespot/metar-backend/internal/config"
	"github.com/planespot/metar-backend/internal/observability"
	"github.com/planespot/metar-backend/internal/source"
	"github.com/planespot/metar-backend/internal/weather"
	"github.com/planespot/metar-backend/pkg/http/client"
	"github.com/rs/zerolog/log"
)

// NewWeatherService wires the sources, caches and archive described by cfg
// and cacheCfg into a resolver
func NewWeatherService(ctx context.Context, cfg *config.Config, cacheCfg *config.CacheConfig, metrics *observability.Metrics) (*weather.Service, error) {
	structuredClient := client.New(client.Options{
		BaseURL: cfg.StructuredBaseURL,
		Timeout: cfg.HTTPTimeout,
	})
	bulletinClient := client.New(client.Options{
		BaseURL: cfg.BulletinBaseURL,
		Timeout: cfg.HTTPTimeout,
	})

	opts := []weather.Option{
		weather.WithMaxReportAge(cfg.MaxReportAge),
		weather.WithParallelFetch(cfg.ParallelFetch),
		weather.WithMetrics(metrics),
	}

	var dynamoCache *cache.DynamoReportCache
	if cacheCfg.EnableDynamoCache {
		dynamoClient, err := cache.NewDynamoClient(ctx, cacheCfg.DynamoEndpoint)
		if err != nil {
			return nil, fmt.Errorf("creating DynamoDB client: %w", err)
		}
		dynamoCache = cache.NewDynamoReportCache(dynamoClient, cacheCfg)
	}

	if cacheCfg.EnableLRUCache || dynamoCache != nil {
		reportCache, err := cache.NewReportCacheService(cacheCfg, dynamoCache, metrics)
		if err != nil {
			return nil, fmt.Errorf("creating report cache: %w", err)
		}
		opts = append(opts, weather.WithCache(reportCache))
	}

	if cacheCfg.ArchiveEnabled() {
		s3Client, err := cache.NewS3Client(ctx, cacheCfg.ArchiveEndpoint)
		if err != nil {
			return nil, fmt.Errorf("creating S3 client: %w", err)
		}
		opts = append(opts, weather.WithArchive(cache.NewS3BulletinArchive(s3Client, cacheCfg.ArchiveBucket)))
	}

	log.Debug().
		Str("structured_url", cfg.StructuredBaseURL).
		Str("bulletin_url", cfg.BulletinBaseURL).
		Bool("parallel", cfg.ParallelFetch).
		Bool("dynamo_cache", dynamoCache != nil).
		Bool("archive", cacheCfg.ArchiveEnabled()).
		Msg("Weather service configured")

	return weather.NewService(
		source.NewAviationWeatherSource(structuredClient, cfg.LookbackHours),
		source.NewRedemetSource(bulletinClient, cfg.BulletinAPIKey),
		opts...,
	), nil
}
