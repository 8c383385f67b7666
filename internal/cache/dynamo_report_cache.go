package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/jonboulle/clockwork"
	"github.com/planespot/metar-backend/internal/config"
	"github.com/planespot/metar-backend/internal/models"
	"github.com/rs/zerolog/log"
)

// DynamoReportCache stores the latest resolved report per aerodrome in DynamoDB
type DynamoReportCache struct {
	client    DynamoDBClient
	tableName string
	ttl       time.Duration
	clock     clockwork.Clock
}

func NewDynamoReportCache(client DynamoDBClient, cacheConfig *config.CacheConfig) *DynamoReportCache {
	if cacheConfig == nil {
		cacheConfig = config.GetCacheConfig()
	}
	return &DynamoReportCache{
		client:    client,
		tableName: cacheConfig.ReportTableName,
		ttl:       cacheConfig.GetDynamoTTL(),
		clock:     clockwork.NewRealClock(),
	}
}

// GetReport returns the cached record for icao, or nil when absent or expired
func (c *DynamoReportCache) GetReport(ctx context.Context, icao string) (*models.ReportRecord, error) {
	result, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"icao": &types.AttributeValueMemberS{Value: icao},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting report from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var record models.ReportRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling report record: %w", err)
	}

	if c.clock.Now().Unix() >= record.TTL {
		log.Debug().Str("icao", icao).Msg("Cached report expired")
		return nil, nil
	}

	return &record, nil
}

// SaveReport writes record with a fresh TTL
func (c *DynamoReportCache) SaveReport(ctx context.Context, record models.ReportRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid report record: %w", err)
	}

	now := c.clock.Now().Unix()
	record.LastUpdated = now
	record.TTL = now + int64(c.ttl.Seconds())

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshaling report record: %w", err)
	}

	if _, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("putting report in DynamoDB: %w", err)
	}

	log.Debug().
		Str("icao", record.ICAO).
		Str("source", string(record.Source)).
		Msg("Saved report to cache")

	return nil
}
