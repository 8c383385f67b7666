package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"
	"github.com/planespot/metar-backend/internal/config"
	"github.com/planespot/metar-backend/internal/models"
	"github.com/planespot/metar-backend/internal/observability"
)

// LRUCacheEntry wraps the cached record with its in-process expiry
type LRUCacheEntry struct {
	Data      models.ReportRecord
	ExpiresAt time.Time
}

// ReportCacheService layers an in-process LRU in front of an optional
// DynamoDB table
type ReportCacheService struct {
	lru         *lru.Cache[string, *LRUCacheEntry]
	dynamoCache *DynamoReportCache
	ttl         time.Duration
	clock       clockwork.Clock
	metrics     *observability.Metrics

	lruHits      atomic.Uint64
	lruMisses    atomic.Uint64
	dynamoHits   atomic.Uint64
	dynamoMisses atomic.Uint64
}

// NewReportCacheService builds the cache. dynamoCache may be nil, and the LRU
// layer is skipped when disabled in cfg.
func NewReportCacheService(cfg *config.CacheConfig, dynamoCache *DynamoReportCache, metrics *observability.Metrics) (*ReportCacheService, error) {
	if cfg == nil {
		cfg = config.GetCacheConfig()
	}
	if metrics == nil {
		metrics = observability.NewUnregisteredMetrics()
	}

	service := &ReportCacheService{
		dynamoCache: dynamoCache,
		ttl:         cfg.GetReportLRUTTL(),
		clock:       clockwork.NewRealClock(),
		metrics:     metrics,
	}

	if cfg.EnableLRUCache {
		lruCache, err := lru.New[string, *LRUCacheEntry](cfg.ReportLRUSize)
		if err != nil {
			return nil, fmt.Errorf("creating LRU cache: %w", err)
		}
		service.lru = lruCache
	}

	return service, nil
}

// GetReport tries the LRU first, then DynamoDB. A DynamoDB hit is promoted
// into the LRU. Returns nil when neither layer has a live record.
func (c *ReportCacheService) GetReport(ctx context.Context, icao string) (*models.ReportRecord, error) {
	if c.lru != nil {
		if entry, ok := c.lru.Get(icao); ok {
			if c.clock.Now().Before(entry.ExpiresAt) {
				c.lruHits.Add(1)
				c.metrics.CacheLookups.WithLabelValues("lru", "hit").Inc()
				record := entry.Data
				return &record, nil
			}
			c.lru.Remove(icao)
		}
		c.lruMisses.Add(1)
		c.metrics.CacheLookups.WithLabelValues("lru", "miss").Inc()
	}

	if c.dynamoCache == nil {
		return nil, nil
	}

	record, err := c.dynamoCache.GetReport(ctx, icao)
	if err != nil {
		return nil, fmt.Errorf("getting report from DynamoDB: %w", err)
	}

	if record == nil {
		c.dynamoMisses.Add(1)
		c.metrics.CacheLookups.WithLabelValues("dynamo", "miss").Inc()
		return nil, nil
	}

	c.dynamoHits.Add(1)
	c.metrics.CacheLookups.WithLabelValues("dynamo", "hit").Inc()
	c.addToLRU(*record)
	return record, nil
}

// SaveReport stores record in every enabled layer
func (c *ReportCacheService) SaveReport(ctx context.Context, record models.ReportRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid report record: %w", err)
	}

	c.addToLRU(record)

	if c.dynamoCache != nil {
		if err := c.dynamoCache.SaveReport(ctx, record); err != nil {
			return fmt.Errorf("saving report to DynamoDB: %w", err)
		}
	}

	return nil
}

func (c *ReportCacheService) addToLRU(record models.ReportRecord) {
	if c.lru == nil {
		return
	}
	c.lru.Add(record.ICAO, &LRUCacheEntry{
		Data:      record,
		ExpiresAt: c.clock.Now().Add(c.ttl),
	})
}

// GetCacheStats returns statistics about cache hits and misses
func (c *ReportCacheService) GetCacheStats() map[string]uint64 {
	return map[string]uint64{
		"lru_hits":      c.lruHits.Load(),
		"lru_misses":    c.lruMisses.Load(),
		"dynamo_hits":   c.dynamoHits.Load(),
		"dynamo_misses": c.dynamoMisses.Load(),
	}
}

// Clear removes all entries from the LRU cache
func (c *ReportCacheService) Clear() {
	if c.lru != nil {
		c.lru.Purge()
	}
}
