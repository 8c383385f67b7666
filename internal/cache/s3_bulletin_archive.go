package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// S3BulletinArchive keeps every raw bulletin payload the service fetched,
// keyed bulletins/<ICAO>/<RFC3339>.txt
type S3BulletinArchive struct {
	client     S3Client
	bucketName string
	clock      clockwork.Clock
}

func NewS3BulletinArchive(client S3Client, bucketName string) *S3BulletinArchive {
	return &S3BulletinArchive{
		client:     client,
		bucketName: bucketName,
		clock:      clockwork.NewRealClock(),
	}
}

func archiveKey(icao string, at time.Time) string {
	return fmt.Sprintf("bulletins/%s/%s.txt", icao, at.UTC().Format(time.RFC3339))
}

// ArchiveBulletin stores rawText untouched
func (a *S3BulletinArchive) ArchiveBulletin(ctx context.Context, icao, rawText string) error {
	if a.bucketName == "" {
		return fmt.Errorf("empty bucket name")
	}

	key := archiveKey(icao, a.clock.Now())
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucketName),
		Key:         aws.String(key),
		Body:        strings.NewReader(rawText),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("saving bulletin to S3: %w", err)
	}

	log.Debug().Str("icao", icao).Str("key", key).Msg("Archived raw bulletin")
	return nil
}
