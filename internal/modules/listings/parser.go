package listings

import (
	"regexp"
	"strconv"
	"strings"
)

// Best-effort numeric extraction for raw listing fields. The source CSVs mix
// units, full-width characters and free text ("8,480万円", "築2015年3月",
// "銀座線 青山一丁目駅 徒歩5分"), so each extractor pulls the first usable
// token and falls back to a fixed default where the field is optional.
// Records that fail a required extraction are dropped upstream.

const (
	// FallbackAge is assumed when a vintage field carries no 4-digit year.
	FallbackAge = 20
	// FallbackWalkMinutes is assumed when a station field has no walk marker.
	FallbackWalkMinutes = 10
)

var (
	digitRunRe = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)
	yearRe     = regexp.MustCompile(`(19|20)[0-9]{2}`)
	walkRe     = regexp.MustCompile(`徒歩\s*([0-9]+)`)
)

// normalize strips thousands separators and converts full-width digits and
// punctuation to their ASCII equivalents.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '０' && r <= '９':
			b.WriteRune('0' + (r - '０'))
		case r == '．':
			b.WriteRune('.')
		case r == ',' || r == '，':
			// thousands separator, drop
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ExtractNumber pulls the first run of digits (with optional decimal part)
// out of a raw field, after stripping thousands separators.
// Used for price and floor-area fields.
func ExtractNumber(s string) (float64, bool) {
	match := digitRunRe.FindString(normalize(s))
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ExtractAge derives a building age from a vintage field by extracting the
// first 4-digit year token and subtracting it from the reference year.
// Fields without a year token get FallbackAge.
func ExtractAge(s string, referenceYear int) int {
	match := yearRe.FindString(normalize(s))
	if match == "" {
		return FallbackAge
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return FallbackAge
	}
	age := referenceYear - year
	if age < 0 {
		age = 0
	}
	return age
}

// ExtractWalkMinutes pulls the digits following the 徒歩 (walk) marker out
// of a station-access field. Fields without the marker get
// FallbackWalkMinutes.
func ExtractWalkMinutes(s string) int {
	m := walkRe.FindStringSubmatch(normalize(s))
	if m == nil {
		return FallbackWalkMinutes
	}
	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return FallbackWalkMinutes
	}
	return minutes
}
