package legacy

import (
	"sort"
	"strconv"
	"strings"

	"ekiden-club/internal/calc"
	"ekiden-club/internal/models"
	"ekiden-club/internal/records"
)

// NotAvailable marks a distance, temperature or pace that could not be joined.
const NotAvailable = "N/A"

type key struct {
	ordinal int
	edition int
}

type distanceEntry struct {
	km       float64
	explicit bool
}

// DistanceTable maps (section ordinal, edition) to a leg distance in km.
type DistanceTable struct {
	m map[key]distanceEntry
}

// TemperatureTable maps (section ordinal, edition) to the recorded temperature.
type TemperatureTable struct {
	m map[key]string
}

// JoinedRecord is a decoded cell with its reference data attached.
type JoinedRecord struct {
	models.LegacyCellRecord
	Ordinal     int    `json:"ordinal"`
	DistanceKm  string `json:"distance_km"`
	Temperature string `json:"temperature"`
	Pace        string `json:"pace"`
}

// BuildDistanceTable scans general records of races whose name contains any
// of markers. A distance written with a unit beats a bare number for the
// same leg; bare numbers go through the meters heuristic.
func BuildDistanceTable(recs []models.Record, markers []string) DistanceTable {
	t := DistanceTable{m: map[key]distanceEntry{}}
	for _, r := range recs {
		if !containsAny(r.RaceName, markers) {
			continue
		}
		label := r.Section
		if strings.TrimSpace(label) == "" {
			label = r.Event
		}
		ord, ok := SectionOrdinal(label)
		if !ok {
			continue
		}
		ed, ok := EditionNumber(r.RaceName)
		if !ok {
			continue
		}
		km, ok := calc.ParseDistanceKm(r.Distance)
		if !ok || km <= 0 {
			continue
		}
		e := distanceEntry{km: km, explicit: calc.HasExplicitUnit(r.Distance)}
		k := key{ord, ed}
		cur, exists := t.m[k]
		if !exists || (e.explicit && !cur.explicit) {
			t.m[k] = e
		}
	}
	return t
}

// Lookup returns the distance for a leg of an edition.
func (t DistanceTable) Lookup(ordinal, edition int) (float64, bool) {
	e, ok := t.m[key{ordinal, edition}]
	return e.km, ok
}

func (t DistanceTable) Len() int { return len(t.m) }

// BuildTemperatureTable reads a sheet whose header holds section labels from
// column 1 on and whose rows start with the edition number.
func BuildTemperatureTable(header []string, rows [][]string) TemperatureTable {
	t := TemperatureTable{m: map[key]string{}}
	ords := make([]int, len(header))
	for j := 1; j < len(header); j++ {
		if n, ok := SectionOrdinal(header[j]); ok {
			ords[j] = n
		}
	}
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		ed, ok := EditionNumber(row[0])
		if !ok {
			continue
		}
		for j := 1; j < len(row) && j < len(header); j++ {
			v := strings.TrimSpace(row[j])
			if v == "" || ords[j] == 0 {
				continue
			}
			t.m[key{ords[j], ed}] = v
		}
	}
	return t
}

func (t TemperatureTable) Lookup(ordinal, edition int) (string, bool) {
	v, ok := t.m[key{ordinal, edition}]
	return v, ok
}

// Join attaches distance, temperature and pace to each record. Misses yield
// NotAvailable rather than an error.
func Join(recs []models.LegacyCellRecord, dist DistanceTable, temp TemperatureTable) []JoinedRecord {
	out := make([]JoinedRecord, 0, len(recs))
	for _, r := range recs {
		j := JoinedRecord{
			LegacyCellRecord: r,
			DistanceKm:       NotAvailable,
			Temperature:      NotAvailable,
			Pace:             NotAvailable,
		}
		ord, okOrd := SectionOrdinal(r.Section)
		ed, okEd := EditionNumber(r.Edition)
		if okOrd {
			j.Ordinal = ord
		}
		if okOrd && okEd {
			if km, ok := dist.Lookup(ord, ed); ok {
				d := strconv.FormatFloat(km, 'f', -1, 64) + "km"
				j.DistanceKm = d
				if p, ok := calc.CalcPace(r.Time, d); ok {
					j.Pace = p
				}
			}
			if v, ok := temp.Lookup(ord, ed); ok {
				j.Temperature = v
			}
		}
		out = append(out, j)
	}
	return out
}

// SortByRank returns a ranked copy: numeric ranks first, then time via cmp.
func SortByRank(recs []models.LegacyCellRecord, cmp records.TimeCompare) []models.LegacyCellRecord {
	if cmp == nil {
		cmp = records.LexicalTime
	}
	out := append([]models.LegacyCellRecord(nil), recs...)
	sort.SliceStable(out, func(i, j int) bool {
		return records.RankLess(out[i].Rank, out[i].Time, out[j].Rank, out[j].Time, cmp)
	})
	return out
}

// SectionAverage is the mean section time, formatted to a tenth of a second.
func SectionAverage(recs []models.LegacyCellRecord) (string, bool) {
	ts := make([]string, 0, len(recs))
	for _, r := range recs {
		ts = append(ts, r.Time)
	}
	avg, ok := calc.AverageSeconds(ts)
	if !ok {
		return "", false
	}
	return calc.CalcAvgTimeDisplay(avg)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
