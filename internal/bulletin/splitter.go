package bulletin

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ReportType identifies the kind of aerodrome report a bulletin carries
type ReportType string

const (
	TypeMETAR ReportType = "METAR"
	TypeSPECI ReportType = "SPECI"
)

// NoTimestamp marks a report whose text carries no usable DDHHMMZ group
const NoTimestamp = -1

const (
	messageDelimiter = "="
	minSegmentLength = 10
	minutesPerDay    = 24 * 60
)

// RawReport is a single bulletin cut out of a concatenated source payload
type RawReport struct {
	Text               string     `json:"text"`
	OriginalIndex      int        `json:"originalIndex"`
	ExtractedTimeValue int        `json:"extractedTimeValue"`
	Type               ReportType `json:"type,omitempty"`
}

// HasTimestamp reports whether a DDHHMMZ group was found in the text
func (r RawReport) HasTimestamp() bool {
	return r.ExtractedTimeValue != NoTimestamp
}

// NoMessagePhrases are the replies the regional source sends instead of a
// bulletin when it has nothing stored for the aerodrome.
var NoMessagePhrases = []string{
	"NO MESSAGE FOUND",
	"NENHUMA MENSAGEM ENCONTRADA",
	"MENSAGEM NAO ENCONTRADA",
	"MENSAGEM NÃO ENCONTRADA",
	"NAO HA MENSAGEM",
	"NÃO HÁ MENSAGEM",
	"NAO LOCALIZADA",
	"NÃO LOCALIZADA",
}

var (
	reportTypeRe = regexp.MustCompile(`METAR|SPECI`)
	timeGroupRe  = regexp.MustCompile(`\b(\d{2})(\d{2})(\d{2})Z\b`)
)

// Split cuts rawText on the end-of-message marker and returns the cleaned
// reports ordered most recent first. OriginalIndex keeps the emission order.
func Split(rawText string) []RawReport {
	segments := strings.Split(rawText, messageDelimiter)

	reports := make([]RawReport, 0, len(segments))
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if utf8.RuneCountInString(segment) <= minSegmentLength {
			continue
		}

		loc := reportTypeRe.FindStringIndex(segment)
		if loc == nil && isNoMessagePhrase(segment) {
			continue
		}

		text := segment
		var reportType ReportType
		if loc != nil {
			text = segment[loc[0]:]
			reportType = ReportType(segment[loc[0]:loc[1]])
		}

		reports = append(reports, RawReport{
			Text:               text,
			OriginalIndex:      len(reports),
			ExtractedTimeValue: ExtractTimeValue(text),
			Type:               reportType,
		})
	}

	sortByRecency(reports)
	return reports
}

// SelectLatest returns the most recent report. Equal time values are won by
// the report emitted later by the source, which also covers the case where
// no report carries a timestamp at all.
func SelectLatest(reports []RawReport) (RawReport, bool) {
	if len(reports) == 0 {
		return RawReport{}, false
	}

	best := reports[0]
	for _, r := range reports[1:] {
		if moreRecent(r, best) {
			best = r
		}
	}
	return best, true
}

// Latest splits rawText and selects the most recent report in one pass
func Latest(rawText string) (RawReport, bool) {
	return SelectLatest(Split(rawText))
}

// ExtractTimeValue returns minutes since the start of an unspecified month
// for the first valid DDHHMMZ group in text, or NoTimestamp.
func ExtractTimeValue(text string) int {
	for _, m := range timeGroupRe.FindAllStringSubmatch(text, -1) {
		day, _ := strconv.Atoi(m[1])
		hour, _ := strconv.Atoi(m[2])
		minute, _ := strconv.Atoi(m[3])

		if day < 1 || day > 31 || hour > 23 || minute > 59 {
			continue
		}
		return day*minutesPerDay + hour*60 + minute
	}
	return NoTimestamp
}

// DetectType returns the first report type token in text, or "" when none
func DetectType(text string) ReportType {
	return ReportType(reportTypeRe.FindString(text))
}

func sortByRecency(reports []RawReport) {
	sort.SliceStable(reports, func(i, j int) bool {
		return moreRecent(reports[i], reports[j])
	})
}

func moreRecent(a, b RawReport) bool {
	if a.ExtractedTimeValue != b.ExtractedTimeValue {
		return a.ExtractedTimeValue > b.ExtractedTimeValue
	}
	return a.OriginalIndex > b.OriginalIndex
}

func isNoMessagePhrase(segment string) bool {
	upper := strings.ToUpper(segment)
	for _, phrase := range NoMessagePhrases {
		if strings.Contains(upper, phrase) {
			return true
		}
	}
	return false
}
