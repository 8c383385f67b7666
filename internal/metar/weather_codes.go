package metar

import (
	"regexp"
	"strings"
)

// Present weather code tables. A weather group is an optional intensity,
// an optional descriptor and one or more phenomena, e.g. -TSRA or +SHRASN.
var (
	Intensities = []string{"-", "+", "VC"}

	Descriptors = []string{"MI", "BC", "DR", "BL", "SH", "TS", "FZ", "PR"}

	Phenomena = []string{
		"DZ", "RA", "SN", "SG", "IC", "PL", "GR", "GS", "UP",
		"BR", "FG", "FU", "VA", "DU", "SA", "HZ", "PY",
		"PO", "SQ", "FC", "SS", "DS",
	}
)

var weatherGroupRe = compileWeatherGroup(Intensities, Descriptors, Phenomena)

// compileWeatherGroup builds the anchored matcher for a single weather token
func compileWeatherGroup(intensities, descriptors, phenomena []string) *regexp.Regexp {
	return regexp.MustCompile("^" +
		optionalGroup(intensities) +
		optionalGroup(descriptors) +
		"(?:" + alternation(phenomena) + ")+$")
}

// IsWeatherGroup reports whether token is a complete present weather group
func IsWeatherGroup(token string) bool {
	return weatherGroupRe.MatchString(token)
}

func optionalGroup(codes []string) string {
	return "(?:" + alternation(codes) + ")?"
}

func alternation(codes []string) string {
	quoted := make([]string, len(codes))
	for i, code := range codes {
		quoted[i] = regexp.QuoteMeta(code)
	}
	return strings.Join(quoted, "|")
}
