// Package metar decodes display fields out of a raw METAR or SPECI report.
package metar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Display values used when a field is missing or implied by the report
const (
	NotAvailable         = "N/A"
	TenKilometresOrMore  = "10km or more"
	NoCeiling            = "none"
	NoSignificantWeather = "no significant weather"
)

const (
	cavok          = "CAVOK"
	remarksMarker  = "RMK"
	unlimitedVis   = 9999
	feetPerHundred = 100
)

// Wind is the decoded surface wind group
type Wind struct {
	Direction int  `json:"direction"`
	Variable  bool `json:"variable"`
	Speed     int  `json:"speed"`
	Gust      int  `json:"gust,omitempty"`
}

// DecodedFields is the display view of one raw report. It is derived from
// the raw text alone and carries no state of its own.
type DecodedFields struct {
	Wind             string `json:"wind"`
	WindDetail       *Wind  `json:"windDetail,omitempty"`
	Visibility       string `json:"visibility"`
	VisibilityMeters *int   `json:"visibilityMeters,omitempty"`
	Ceiling          string `json:"ceiling"`
	CeilingFeet      *int   `json:"ceilingFeet,omitempty"`
	Condition        string `json:"condition"`
}

var (
	windRe       = regexp.MustCompile(`\b(\d{3}|VRB)(\d{2,3})(?:G(\d{2,3}))?KT\b`)
	visibilityRe = regexp.MustCompile(`^\d{4}$`)
	ceilingRe    = regexp.MustCompile(`\b(BKN|OVC|VV)(\d{3})(?:CB|TCU|///)?\b`)
	noCloudRe    = regexp.MustCompile(`\b(NSC|SKC|NCD|CLR)\b`)
	stationRe    = regexp.MustCompile(`^[A-Z][A-Z0-9]{3}$`)
	timeGroupRe  = regexp.MustCompile(`^\d{6}Z$`)
)

// Decode extracts wind, visibility, ceiling and present weather from raw.
// It never fails: fields that cannot be found are set to NotAvailable.
func Decode(raw string) DecodedFields {
	text := strings.ToUpper(strings.TrimSpace(raw))
	tokens := reportTokens(text)
	body := strings.Join(tokens, " ")

	fields := DecodedFields{
		Wind:       NotAvailable,
		Visibility: NotAvailable,
		Ceiling:    NotAvailable,
		Condition:  NotAvailable,
	}

	decodeWind(body, &fields)

	if containsToken(tokens, cavok) {
		fields.Visibility = TenKilometresOrMore
		fields.Ceiling = NoCeiling
		fields.Condition = NoSignificantWeather
		return fields
	}

	decodeVisibility(tokens, &fields)
	decodeCeiling(body, &fields)
	decodeCondition(tokens, &fields)

	return fields
}

func decodeWind(body string, fields *DecodedFields) {
	m := windRe.FindStringSubmatch(body)
	if m == nil {
		return
	}

	wind := &Wind{Variable: m[1] == "VRB"}
	if !wind.Variable {
		wind.Direction, _ = strconv.Atoi(m[1])
	}
	wind.Speed, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		wind.Gust, _ = strconv.Atoi(m[3])
	}

	fields.WindDetail = wind
	fields.Wind = wind.String()
}

// String renders the wind for display, e.g. "180° 15kt gusting 25kt"
func (w Wind) String() string {
	direction := "variable"
	if !w.Variable {
		direction = fmt.Sprintf("%03d°", w.Direction)
	}

	s := fmt.Sprintf("%s %dkt", direction, w.Speed)
	if w.Gust > 0 {
		s += fmt.Sprintf(" gusting %dkt", w.Gust)
	}
	return s
}

func decodeVisibility(tokens []string, fields *DecodedFields) {
	for _, token := range tokens {
		if !visibilityRe.MatchString(token) {
			continue
		}

		meters, _ := strconv.Atoi(token)
		fields.VisibilityMeters = &meters
		if meters == unlimitedVis {
			fields.Visibility = TenKilometresOrMore
		} else {
			fields.Visibility = fmt.Sprintf("%dm", meters)
		}
		return
	}
}

func decodeCeiling(body string, fields *DecodedFields) {
	if m := ceilingRe.FindStringSubmatch(body); m != nil {
		hundreds, _ := strconv.Atoi(m[2])
		feet := hundreds * feetPerHundred
		fields.Ceiling = m[1] + m[2]
		fields.CeilingFeet = &feet
		return
	}

	if noCloudRe.MatchString(body) {
		fields.Ceiling = NoCeiling
	}
}

func decodeCondition(tokens []string, fields *DecodedFields) {
	var groups []string
	for _, token := range tokens {
		if IsWeatherGroup(token) {
			groups = append(groups, token)
		}
	}

	if len(groups) > 0 {
		fields.Condition = strings.Join(groups, " ")
	}
}

// reportTokens splits the report body into groups, leaving out the station
// identifier and anything after the remarks marker. The identifier is the
// token after the report type or, when the type is missing, the token right
// before the DDHHMMZ group.
func reportTokens(text string) []string {
	all := strings.Fields(text)

	tokens := make([]string, 0, len(all))
	skipStation := false
	for i, token := range all {
		if token == remarksMarker {
			break
		}

		switch {
		case token == "METAR" || token == "SPECI":
			skipStation = true
			continue
		case skipStation && (token == "COR" || token == "AUTO"):
			continue
		case skipStation:
			skipStation = false
			continue
		case i+1 < len(all) && stationRe.MatchString(token) && timeGroupRe.MatchString(all[i+1]):
			continue
		}

		tokens = append(tokens, token)
	}
	return tokens
}

func containsToken(tokens []string, want string) bool {
	for _, token := range tokens {
		if token == want {
			return true
		}
	}
	return false
}
