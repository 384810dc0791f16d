package calc

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MetersThreshold is the bare-number cutoff: larger values are read as meters.
// A 100+ km race written without a unit is misread as meters; kept as-is for
// compatibility with existing sheet data.
const MetersThreshold = 100

var (
	distanceRe = regexp.MustCompile(`^([\d.]+)(km|m)?$`)
	timePartRe = regexp.MustCompile(`^[0-9.]+$`)
)

// ParseDistanceKm normalizes "5.8km", "5800m" or a bare "5800" to kilometers,
// rounded to two decimals.
func ParseDistanceKm(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	m := distanceRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	switch m[2] {
	case "km":
	case "m":
		v /= 1000
	default:
		if v > MetersThreshold {
			v /= 1000
		}
	}
	return round2(v), true
}

// HasExplicitUnit reports whether s is a well-formed distance with a km/m suffix.
func HasExplicitUnit(s string) bool {
	m := distanceRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	return m != nil && m[2] != ""
}

// TimeToSeconds parses "mm:ss" or "hh:mm:ss". Seconds may be fractional.
// It only fails on shape or number errors; a zero total is returned as valid.
func TimeToSeconds(s string) (float64, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}
	vals := make([]float64, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if !timePartRe.MatchString(p) {
			return 0, false
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		vals[i] = v
	}
	if len(vals) == 2 {
		return vals[0]*60 + vals[1], true
	}
	return vals[0]*3600 + vals[1]*60 + vals[2], true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
