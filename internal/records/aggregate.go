package records

import (
	"sort"
	"strconv"
	"strings"

	"ekiden-club/internal/calc"
	"ekiden-club/internal/models"
)

// UnrankedRank is the placeholder rank used when sorting entries without one.
const UnrankedRank = 999

// RaceSummary groups every record filed under one race name.
type RaceSummary struct {
	RaceName     string          `json:"race_name"`
	RaceType     string          `json:"race_type"`
	Date         string          `json:"date"`
	Participants []string        `json:"participants"`
	Records      []models.Record `json:"records"`
}

// SectionResult is the ranked list of results for one race section.
type SectionResult struct {
	RaceName string          `json:"race_name"`
	Section  string          `json:"section"`
	Records  []models.Record `json:"records"`
}

// TimeCompare orders two raw time strings; negative means a sorts first.
type TimeCompare func(a, b string) int

// LexicalTime compares raw strings, so "9:00" sorts after "10:00".
func LexicalTime(a, b string) int {
	return strings.Compare(a, b)
}

// DurationTime compares parsed durations; unparseable times sort last and
// fall back to string order among themselves.
func DurationTime(a, b string) int {
	sa, okA := calc.TimeToSeconds(a)
	sb, okB := calc.TimeToSeconds(b)
	switch {
	case okA && okB:
		if sa < sb {
			return -1
		}
		if sa > sb {
			return 1
		}
		return 0
	case okA:
		return -1
	case okB:
		return 1
	}
	return strings.Compare(a, b)
}

// CompareByName returns the tie-break for a config value; anything other
// than "duration" selects LexicalTime.
func CompareByName(name string) TimeCompare {
	if strings.EqualFold(strings.TrimSpace(name), "duration") {
		return DurationTime
	}
	return LexicalTime
}

// ParseRank returns a numeric rank, or false for blank and non-numeric values.
func ParseRank(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// RankLess orders ranked entries before unranked ones, then by rank, then by
// time using cmp.
func RankLess(rankA, timeA, rankB, timeB string, cmp TimeCompare) bool {
	ta, ra := rankKey(rankA)
	tb, rb := rankKey(rankB)
	if ta != tb {
		return ta < tb
	}
	if ra != rb {
		return ra < rb
	}
	return cmp(timeA, timeB) < 0
}

func rankKey(s string) (tier, rank int) {
	if n, ok := ParseRank(s); ok {
		return 0, n
	}
	return 1, UnrankedRank
}

// GroupByRace groups records by race name, newest date first. Dates are
// compared as strings, so they must be in year-first form.
func GroupByRace(recs []models.Record, names map[string]string) []RaceSummary {
	idx := map[string]int{}
	var out []RaceSummary
	seen := map[string]map[string]bool{}

	for _, r := range recs {
		race := strings.TrimSpace(r.RaceName)
		if race == "" {
			continue
		}
		i, ok := idx[race]
		if !ok {
			i = len(out)
			idx[race] = i
			out = append(out, RaceSummary{
				RaceName: race,
				RaceType: r.RaceType,
				Date:     r.Date,
			})
			seen[race] = map[string]bool{}
		}
		g := &out[i]
		g.Records = append(g.Records, r)

		name := strings.TrimSpace(r.PlayerName)
		if name == "" {
			name = names[r.PlayerID]
		}
		if name != "" && !seen[race][name] {
			seen[race][name] = true
			g.Participants = append(g.Participants, name)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// SectionResults ranks one section of a race with the default tie-break.
func SectionResults(recs []models.Record, raceName, section string) SectionResult {
	return SectionResultsWith(recs, raceName, section, LexicalTime)
}

// SectionResultsWith ranks one section of a race using cmp to break ties on time.
func SectionResultsWith(recs []models.Record, raceName, section string, cmp TimeCompare) SectionResult {
	if cmp == nil {
		cmp = LexicalTime
	}
	res := SectionResult{RaceName: raceName, Section: section}
	for _, r := range recs {
		if r.RaceName == raceName && r.Section == section {
			res.Records = append(res.Records, r)
		}
	}
	sort.SliceStable(res.Records, func(i, j int) bool {
		a, b := res.Records[i], res.Records[j]
		return RankLess(a.Rank, a.Time, b.Rank, b.Time, cmp)
	})
	return res
}
