package config

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// LRU Cache settings
	ReportLRUSize       int
	ReportLRUTTLMinutes int

	// DynamoDB Cache settings
	ReportDynamoTTLMinutes int
	ReportTableName        string
	DynamoEndpoint         string

	// S3 bulletin archive
	ArchiveBucket   string
	ArchiveEndpoint string

	// General settings
	EnableLRUCache    bool
	EnableDynamoCache bool
}

const (
	defaultReportLRUSize       = 500
	defaultReportLRUTTLMinutes = 5
	defaultReportDynamoTTLMins = 30
	defaultReportTableName     = "metar-report-cache"
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		ReportLRUSize:          getEnvInt("CACHE_REPORT_LRU_SIZE", defaultReportLRUSize),
		ReportLRUTTLMinutes:    getEnvInt("CACHE_REPORT_LRU_TTL_MINUTES", defaultReportLRUTTLMinutes),
		ReportDynamoTTLMinutes: getEnvInt("CACHE_REPORT_DYNAMO_TTL_MINUTES", defaultReportDynamoTTLMins),
		ReportTableName:        getEnvOrDefault("CACHE_REPORT_TABLE", defaultReportTableName),
		DynamoEndpoint:         os.Getenv("DYNAMODB_ENDPOINT"),
		ArchiveBucket:          os.Getenv("ARCHIVE_BUCKET"),
		ArchiveEndpoint:        os.Getenv("S3_ENDPOINT"),
		EnableLRUCache:         getEnvBool("CACHE_ENABLE_LRU", true),
		EnableDynamoCache:      getEnvBool("CACHE_ENABLE_DYNAMO", false),
	}

	log.Debug().
		Int("ReportLRUSize", config.ReportLRUSize).
		Int("ReportLRUTTLMinutes", config.ReportLRUTTLMinutes).
		Int("ReportDynamoTTLMinutes", config.ReportDynamoTTLMinutes).
		Str("ReportTableName", config.ReportTableName).
		Str("ArchiveBucket", config.ArchiveBucket).
		Bool("EnableLRUCache", config.EnableLRUCache).
		Bool("EnableDynamoCache", config.EnableDynamoCache).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetReportLRUTTL() time.Duration {
	return time.Duration(c.ReportLRUTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetDynamoTTL() time.Duration {
	return time.Duration(c.ReportDynamoTTLMinutes) * time.Minute
}

// ArchiveEnabled reports whether raw bulletins should be written to S3
func (c *CacheConfig) ArchiveEnabled() bool {
	return c.ArchiveBucket != ""
}
