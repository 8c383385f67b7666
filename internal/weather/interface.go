package weather

import (
	"context"

	"github.com/planespot/metar-backend/internal/models"
)

type WeatherService interface {
	ResolveWeather(ctx context.Context, icao string) (*models.WeatherReport, error)
}

// StructuredSource returns already-parsed candidate reports. An empty slice
// means the source has nothing for the aerodrome.
type StructuredSource interface {
	FetchStructuredReports(ctx context.Context, icao string) ([]models.StructuredReport, error)
}

// BulletinSource returns the concatenated, "="-terminated bulletin text
type BulletinSource interface {
	FetchRawBulletinText(ctx context.Context, icao string) (string, error)
}

type ReportCache interface {
	GetReport(ctx context.Context, icao string) (*models.ReportRecord, error)
	SaveReport(ctx context.Context, record models.ReportRecord) error
}

type BulletinArchive interface {
	ArchiveBulletin(ctx context.Context, icao, rawText string) error
}
