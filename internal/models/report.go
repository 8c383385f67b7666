package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/planespot/metar-backend/internal/bulletin"
	"github.com/planespot/metar-backend/internal/metar"
)

type Source string

const (
	SourceStructured Source = "STRUCTURED"
	SourceBulletin   Source = "BULLETIN"
)

// StructuredReport is one candidate report from the structured source,
// already mapped away from the provider's field names
type StructuredReport struct {
	ICAO         string
	RawText      string
	ReportedTime *time.Time
	Category     string
}

// ReportRecord is the cached winner for an aerodrome. Only the raw text and
// where it came from are stored; decoded fields are rebuilt on every read.
type ReportRecord struct {
	ICAO        string              `dynamodbav:"icao" json:"icao"`
	RawText     string              `dynamodbav:"rawText" json:"rawText"`
	Type        bulletin.ReportType `dynamodbav:"type" json:"type,omitempty"`
	Source      Source              `dynamodbav:"source" json:"source"`
	ObservedAt  int64               `dynamodbav:"observedAt" json:"observedAt,omitempty"`
	Stale       bool                `dynamodbav:"stale" json:"stale"`
	LastUpdated int64               `dynamodbav:"lastUpdated" json:"lastUpdated"`
	TTL         int64               `dynamodbav:"ttl" json:"ttl"`
}

// Validate checks the record before it is written to a cache
func (r *ReportRecord) Validate() error {
	if r.ICAO == "" {
		return fmt.Errorf("icao is required")
	}

	if strings.TrimSpace(r.RawText) == "" {
		return fmt.Errorf("raw text is required")
	}

	switch r.Source {
	case SourceStructured, SourceBulletin:
	default:
		return fmt.Errorf("invalid source: %s", r.Source)
	}

	return nil
}

// WeatherReport is the resolved report for an aerodrome plus its decoded fields
type WeatherReport struct {
	ResponseType string              `json:"responseType"`
	ICAO         string              `json:"icao"`
	RawText      string              `json:"rawText"`
	Type         bulletin.ReportType `json:"type,omitempty"`
	Source       Source              `json:"source"`
	ObservedAt   *time.Time          `json:"observedAt,omitempty"`
	Stale        bool                `json:"stale"`
	Cached       bool                `json:"cached"`
	Decoded      metar.DecodedFields `json:"decoded"`
}

// NewWeatherReport decodes the record's raw text into a response
func NewWeatherReport(record ReportRecord) *WeatherReport {
	report := &WeatherReport{
		ResponseType: "weather",
		ICAO:         record.ICAO,
		RawText:      record.RawText,
		Type:         record.Type,
		Source:       record.Source,
		Stale:        record.Stale,
		Decoded:      metar.Decode(record.RawText),
	}

	if record.ObservedAt > 0 {
		observed := time.Unix(record.ObservedAt, 0).UTC()
		report.ObservedAt = &observed
	}

	return report
}
