package calc

import (
	"fmt"
	"math"
)

// CalcPace returns the per-kilometer pace as "M:SS". Seconds are floored,
// never rounded up into the next minute.
func CalcPace(timeStr, distance string) (string, bool) {
	km, ok := ParseDistanceKm(distance)
	if !ok || km <= 0 {
		return "", false
	}
	secs, ok := TimeToSeconds(timeStr)
	if !ok || secs <= 0 {
		return "", false
	}
	pace := secs / km
	mins := int(math.Floor(pace / 60))
	sec := int(math.Floor(math.Mod(pace, 60)))
	return fmt.Sprintf("%d:%02d", mins, sec), true
}

const carryAt = 59.95

// CalcAvgTimeDisplay renders seconds as "M:SS.s" for the historical relay
// analysis. A remainder of 59.95s or more carries into the next minute.
func CalcAvgTimeDisplay(seconds float64) (string, bool) {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "", false
	}
	mins := int(math.Floor(seconds / 60))
	rem := seconds - float64(mins)*60
	if rem+1e-9 >= carryAt {
		mins++
		rem = 0
	}
	return fmt.Sprintf("%d:%04.1f", mins, rem), true
}

// AverageSeconds averages the parseable, positive times in ts.
func AverageSeconds(ts []string) (float64, bool) {
	var sum float64
	n := 0
	for _, t := range ts {
		s, ok := TimeToSeconds(t)
		if !ok || s <= 0 {
			continue
		}
		sum += s
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// FormatSeconds formats whole seconds as M:SS, or H:MM:SS from one hour up.
func FormatSeconds(secs float64) string {
	total := int(math.Floor(secs))
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
