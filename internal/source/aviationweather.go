package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/planespot/metar-backend/internal/models"
	"github.com/planespot/metar-backend/pkg/http/client"
	"github.com/rs/zerolog/log"
)

const (
	aviationWeatherProvider = "aviationweather"
	defaultLookbackHours    = 3
)

var reportTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// structuredPayload covers the field names seen across structured providers.
// Current aviationweather.gov uses camelCase, the legacy ADDS feed snake_case.
type structuredPayload struct {
	RawOb           string `json:"rawOb"`
	RawText         string `json:"raw_text"`
	IcaoID          string `json:"icaoId"`
	StationID       string `json:"station_id"`
	ReportTime      string `json:"reportTime"`
	ObservationTime string `json:"observation_time"`
	ObsTime         *int64 `json:"obsTime"`
	MetarType       string `json:"metarType"`
	LegacyMetarType string `json:"metar_type"`
}

// AviationWeatherSource fetches already-parsed reports from a structured JSON API
type AviationWeatherSource struct {
	httpClient    client.Interface
	lookbackHours int
}

func NewAviationWeatherSource(httpClient client.Interface, lookbackHours int) *AviationWeatherSource {
	if lookbackHours <= 0 {
		lookbackHours = defaultLookbackHours
	}
	return &AviationWeatherSource{
		httpClient:    httpClient,
		lookbackHours: lookbackHours,
	}
}

// FetchStructuredReports returns the provider's candidate reports for icao in
// the order the provider sent them. An empty answer is not an error.
func (s *AviationWeatherSource) FetchStructuredReports(ctx context.Context, icao string) ([]models.StructuredReport, error) {
	path := fmt.Sprintf("/api/data/metar?ids=%s&format=json&hours=%d", url.QueryEscape(icao), s.lookbackHours)

	resp, err := s.httpClient.Get(ctx, path)
	if err != nil {
		return nil, NewAPIError(aviationWeatherProvider, "fetching reports", err)
	}
	if !resp.OK() {
		return nil, NewStatusError(aviationWeatherProvider, resp.StatusCode)
	}

	payloads, err := decodeStructuredPayloads(resp.Body)
	if err != nil {
		return nil, NewAPIError(aviationWeatherProvider, "decoding response", err)
	}

	reports := make([]models.StructuredReport, 0, len(payloads))
	for _, p := range payloads {
		reports = append(reports, p.toReport())
	}

	log.Debug().
		Str("icao", icao).
		Int("report_count", len(reports)).
		Msg("Fetched structured reports")

	return reports, nil
}

func decodeStructuredPayloads(body []byte) ([]structuredPayload, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	if body[0] == '[' {
		var payloads []structuredPayload
		if err := json.Unmarshal(body, &payloads); err != nil {
			return nil, err
		}
		return payloads, nil
	}

	var wrapped struct {
		Data []structuredPayload `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Data, nil
}

func (p structuredPayload) toReport() models.StructuredReport {
	report := models.StructuredReport{
		ICAO:     strings.ToUpper(firstNonEmpty(p.IcaoID, p.StationID)),
		RawText:  strings.TrimSpace(firstNonEmpty(p.RawOb, p.RawText)),
		Category: strings.ToUpper(firstNonEmpty(p.MetarType, p.LegacyMetarType)),
	}

	if p.ObsTime != nil && *p.ObsTime > 0 {
		t := time.Unix(*p.ObsTime, 0).UTC()
		report.ReportedTime = &t
	} else if t, ok := parseReportTime(firstNonEmpty(p.ReportTime, p.ObservationTime)); ok {
		report.ReportedTime = &t
	}

	return report
}

func parseReportTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range reportTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	log.Debug().Str("value", value).Msg("Unrecognised report time format")
	return time.Time{}, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
