package calendar

import (
	"strings"
	"time"

	"ekiden-club/internal/models"
)

// Cell is one day of the month view. Padding cells have Day == 0.
type Cell struct {
	Day    int            `json:"day"`
	Date   string         `json:"date,omitempty"` // YYYY-MM-DD, empty for padding
	Events []models.Event `json:"events,omitempty"`
}

type Grid struct {
	Year      int          `json:"year"`
	Month     time.Month   `json:"month"`
	WeekStart time.Weekday `json:"week_start"`
	Weeks     [][7]Cell    `json:"weeks"`
}

// Month builds the weeks of a month starting on weekStart and attaches the
// events that fall on each day.
func Month(year int, month time.Month, weekStart time.Weekday, events []models.Event) Grid {
	byDate := map[string][]models.Event{}
	for _, e := range events {
		d := normalizeDate(e.Date)
		byDate[d] = append(byDate[d], e)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()
	offset := (int(first.Weekday()) - int(weekStart) + 7) % 7

	g := Grid{Year: year, Month: month, WeekStart: weekStart}
	var week [7]Cell
	col := offset
	for d := 1; d <= days; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		week[col] = Cell{Day: d, Date: date, Events: byDate[date]}
		col++
		if col == 7 {
			g.Weeks = append(g.Weeks, week)
			week = [7]Cell{}
			col = 0
		}
	}
	if col > 0 {
		g.Weeks = append(g.Weeks, week)
	}
	return g
}

func (g Grid) Prev() (int, time.Month) {
	t := time.Date(g.Year, g.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return t.Year(), t.Month()
}

func (g Grid) Next() (int, time.Month) {
	t := time.Date(g.Year, g.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return t.Year(), t.Month()
}

// normalizeDate accepts YYYY/MM/DD as well as YYYY-MM-DD, with or without
// zero padding.
func normalizeDate(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "/", "-")
	for _, layout := range []string{"2006-01-02", "2006-1-2"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}
