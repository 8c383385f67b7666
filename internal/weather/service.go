package weather

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/planespot/metar-backend/internal/bulletin"
	"github.com/planespot/metar-backend/internal/models"
	"github.com/planespot/metar-backend/internal/observability"
	"github.com/rs/zerolog/log"
)

const (
	DefaultMaxReportAge = 3 * time.Hour

	structuredLabel = "structured"
	bulletinLabel   = "bulletin"
)

type Service struct {
	structured   StructuredSource
	bulletins    BulletinSource
	cache        ReportCache
	archive      BulletinArchive
	clock        clockwork.Clock
	maxReportAge time.Duration
	parallel     bool
	metrics      *observability.Metrics
}

type Option func(*Service)

func WithCache(cache ReportCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithArchive(archive BulletinArchive) Option {
	return func(s *Service) {
		s.archive = archive
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithMaxReportAge sets how old a structured report may be before the
// bulletin source is consulted. Non-positive values are ignored.
func WithMaxReportAge(age time.Duration) Option {
	return func(s *Service) {
		if age > 0 {
			s.maxReportAge = age
		}
	}
}

// WithParallelFetch queries both sources at once instead of only falling
// back to bulletins when the structured source has nothing fresh.
func WithParallelFetch(parallel bool) Option {
	return func(s *Service) {
		s.parallel = parallel
	}
}

func WithMetrics(metrics *observability.Metrics) Option {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// NewService creates the resolver. Either source may be nil, in which case it
// is treated as always empty.
func NewService(structured StructuredSource, bulletins BulletinSource, opts ...Option) *Service {
	s := &Service{
		structured:   structured,
		bulletins:    bulletins,
		clock:        clockwork.NewRealClock(),
		maxReportAge: DefaultMaxReportAge,
		parallel:     true,
		metrics:      observability.NewUnregisteredMetrics(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// structuredCandidate is a structured report with its resolved observation time
type structuredCandidate struct {
	report   models.StructuredReport
	observed time.Time
	hasTime  bool
	index    int
}

// fetchResult holds what each source produced for one resolution
type fetchResult struct {
	structured    []models.StructuredReport
	bulletinText  string
	bulletinFetch bool
}

// ResolveWeather returns the most recent report for icao with its decoded
// fields. A nil report with a nil error means no source had anything.
func (s *Service) ResolveWeather(ctx context.Context, icao string) (*models.WeatherReport, error) {
	code, ok := NormalizeICAO(icao)
	if !ok {
		s.metrics.Resolutions.WithLabelValues(observability.OutcomeInvalid).Inc()
		return nil, NewInvalidICAOError(icao)
	}

	if report := s.fromCache(ctx, code); report != nil {
		s.metrics.Resolutions.WithLabelValues(observability.OutcomeCache).Inc()
		return report, nil
	}

	now := s.clock.Now().UTC()

	var result fetchResult
	if s.parallel {
		result = s.fetchBoth(ctx, code)
	} else {
		result.structured = s.fetchStructured(ctx, code)
	}

	winner, found := selectStructured(result.structured, code, now)
	if found && s.isFresh(winner, now) {
		return s.finish(ctx, structuredRecord(code, winner, false), observability.OutcomeStructured), nil
	}

	if !result.bulletinFetch {
		result.bulletinText = s.fetchBulletin(ctx, code)
	}

	if latest, ok := bulletin.Latest(result.bulletinText); ok {
		return s.finish(ctx, bulletinRecord(code, latest, now), observability.OutcomeBulletin), nil
	}

	if found {
		log.Debug().Str("icao", code).Msg("Falling back to stale structured report")
		record := structuredRecord(code, winner, true)
		s.metrics.Resolutions.WithLabelValues(observability.OutcomeStale).Inc()
		return models.NewWeatherReport(record), nil
	}

	log.Info().Str("icao", code).Msg("No weather report available")
	s.metrics.Resolutions.WithLabelValues(observability.OutcomeUnavailable).Inc()
	return nil, nil
}

// NormalizeICAO upper-cases code and checks it is four letters or digits
func NormalizeICAO(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 4 {
		return "", false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", false
		}
	}
	return code, true
}

func (s *Service) fromCache(ctx context.Context, icao string) *models.WeatherReport {
	if s.cache == nil {
		return nil
	}

	record, err := s.cache.GetReport(ctx, icao)
	if err != nil {
		log.Warn().Err(err).Str("icao", icao).Msg("Report cache lookup failed")
		return nil
	}
	if record == nil {
		return nil
	}

	log.Debug().Str("icao", icao).Msg("Report cache hit")
	report := models.NewWeatherReport(*record)
	report.Cached = true
	return report
}

func (s *Service) fetchBoth(ctx context.Context, icao string) fetchResult {
	var (
		wg     sync.WaitGroup
		result fetchResult
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		result.structured = s.fetchStructured(ctx, icao)
	}()
	go func() {
		defer wg.Done()
		result.bulletinText = s.fetchBulletin(ctx, icao)
	}()
	wg.Wait()

	result.bulletinFetch = true
	return result
}

func (s *Service) fetchStructured(ctx context.Context, icao string) []models.StructuredReport {
	if s.structured == nil {
		return nil
	}

	start := s.clock.Now()
	reports, err := s.structured.FetchStructuredReports(ctx, icao)
	s.metrics.SourceDuration.WithLabelValues(structuredLabel).Observe(s.clock.Since(start).Seconds())
	if err != nil {
		s.metrics.SourceFailures.WithLabelValues(structuredLabel).Inc()
		log.Warn().Err(err).Str("icao", icao).Msg("Structured source failed")
		return nil
	}

	return reports
}

func (s *Service) fetchBulletin(ctx context.Context, icao string) string {
	if s.bulletins == nil {
		return ""
	}

	start := s.clock.Now()
	text, err := s.bulletins.FetchRawBulletinText(ctx, icao)
	s.metrics.SourceDuration.WithLabelValues(bulletinLabel).Observe(s.clock.Since(start).Seconds())
	if err != nil {
		s.metrics.SourceFailures.WithLabelValues(bulletinLabel).Inc()
		log.Warn().Err(err).Str("icao", icao).Msg("Bulletin source failed")
		return ""
	}

	if s.archive != nil && strings.TrimSpace(text) != "" {
		if err := s.archive.ArchiveBulletin(ctx, icao, text); err != nil {
			s.metrics.ArchiveErrors.Inc()
			log.Warn().Err(err).Str("icao", icao).Msg("Failed to archive raw bulletin")
		}
	}

	return text
}

// selectStructured re-sorts the provider's candidates instead of trusting its
// order: most recent observation first, then later position in the payload.
// Candidates without any time sort last.
func selectStructured(reports []models.StructuredReport, icao string, now time.Time) (structuredCandidate, bool) {
	candidates := make([]structuredCandidate, 0, len(reports))
	for i, r := range reports {
		if strings.TrimSpace(r.RawText) == "" {
			continue
		}
		if r.ICAO != "" && !strings.EqualFold(r.ICAO, icao) {
			continue
		}

		c := structuredCandidate{report: r, index: i}
		if r.ReportedTime != nil {
			c.observed, c.hasTime = r.ReportedTime.UTC(), true
		} else {
			c.observed, c.hasTime = bulletin.ResolveTime(bulletin.ExtractTimeValue(r.RawText), now)
		}
		candidates = append(candidates, c)
	}

	if len(candidates) == 0 {
		return structuredCandidate{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.hasTime != b.hasTime {
			return a.hasTime
		}
		if !a.observed.Equal(b.observed) {
			return a.observed.After(b.observed)
		}
		return a.index > b.index
	})

	return candidates[0], true
}

func (s *Service) isFresh(c structuredCandidate, now time.Time) bool {
	return c.hasTime && now.Sub(c.observed) <= s.maxReportAge
}

func structuredRecord(icao string, c structuredCandidate, stale bool) models.ReportRecord {
	raw := strings.TrimSpace(c.report.RawText)

	reportType := bulletin.ReportType(strings.ToUpper(c.report.Category))
	if reportType != bulletin.TypeMETAR && reportType != bulletin.TypeSPECI {
		reportType = bulletin.DetectType(raw)
	}

	record := models.ReportRecord{
		ICAO:    icao,
		RawText: raw,
		Type:    reportType,
		Source:  models.SourceStructured,
		Stale:   stale,
	}
	if c.hasTime {
		record.ObservedAt = c.observed.Unix()
	}
	return record
}

func bulletinRecord(icao string, report bulletin.RawReport, now time.Time) models.ReportRecord {
	record := models.ReportRecord{
		ICAO:    icao,
		RawText: report.Text,
		Type:    report.Type,
		Source:  models.SourceBulletin,
	}
	if observed, ok := bulletin.ResolveTime(report.ExtractedTimeValue, now); ok {
		record.ObservedAt = observed.Unix()
	}
	return record
}

// finish caches the winning record and builds the response. Decoded fields
// are never cached, only the raw text.
func (s *Service) finish(ctx context.Context, record models.ReportRecord, outcome string) *models.WeatherReport {
	if s.cache != nil {
		if err := s.cache.SaveReport(ctx, record); err != nil {
			log.Warn().Err(err).Str("icao", record.ICAO).Msg("Failed to cache report")
		}
	}

	log.Debug().
		Str("icao", record.ICAO).
		Str("source", string(record.Source)).
		Msg("Resolved weather report")

	s.metrics.Resolutions.WithLabelValues(outcome).Inc()
	return models.NewWeatherReport(record)
}
