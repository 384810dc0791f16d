package records

import (
	"math"
	"sort"
	"strings"

	"ekiden-club/internal/calc"
	"ekiden-club/internal/models"
)

// PersonalBest is the fastest record seen for one event label.
type PersonalBest struct {
	Time    string  `json:"time"`
	Date    string  `json:"date"`
	Seconds float64 `json:"-"`
}

// EventBest pairs an event label with its personal best, for ordered display.
type EventBest struct {
	Event string `json:"event"`
	PersonalBest
}

// PersonalBests reduces records to one best time per event label.
// Unparseable times count as +Inf, so they only stand when nothing valid
// exists for that event. Equal times keep the first record seen.
func PersonalBests(recs []models.Record) map[string]PersonalBest {
	best := map[string]PersonalBest{}
	for _, r := range recs {
		event := strings.TrimSpace(r.Event)
		tm := strings.TrimSpace(r.Time)
		if event == "" || tm == "" {
			continue
		}
		secs := bestSeconds(tm)
		cur, ok := best[event]
		if !ok || secs < cur.Seconds {
			best[event] = PersonalBest{Time: tm, Date: r.Date, Seconds: secs}
		}
	}
	return best
}

// SortedBests flattens PersonalBests output ordered by event label.
func SortedBests(m map[string]PersonalBest) []EventBest {
	out := make([]EventBest, 0, len(m))
	for ev, pb := range m {
		out = append(out, EventBest{Event: ev, PersonalBest: pb})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Event < out[j].Event })
	return out
}

func bestSeconds(tm string) float64 {
	secs, ok := calc.TimeToSeconds(tm)
	if !ok {
		return math.Inf(1)
	}
	return secs
}
