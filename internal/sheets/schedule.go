package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ekiden-club/internal/models"
	"ekiden-club/internal/util"
)

var (
	eventHeader      = []string{"id", "date", "title", "place", "memo"}
	practiceHeader   = []string{"id", "date", "player_id", "menu", "distance", "time", "memo"}
	attendanceHeader = []string{"date", "player_id", "status", "memo"}
	simulationHeader = []string{"created_at", "title", "order_data"}
)

// ---------- Events (calendar) ----------

func eventsFromValues(values [][]interface{}) []models.Event {
	t := parseTable(values)
	out := []models.Event{}
	for _, row := range t.rows {
		e := models.Event{
			ID:    t.get(row, "id"),
			Date:  t.get(row, "date"),
			Title: t.get(row, "title"),
			Place: t.get(row, "place"),
			Memo:  t.get(row, "memo"),
		}
		if e.Date == "" || e.Title == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (c *Client) ListEvents(ctx context.Context) ([]models.Event, error) {
	values, err := c.readAll(ctx, SheetEvents)
	if err != nil {
		return nil, err
	}
	return eventsFromValues(values), nil
}

func (c *Client) AddEvent(ctx context.Context, e models.Event) (models.Event, error) {
	if strings.TrimSpace(e.Date) == "" || strings.TrimSpace(e.Title) == "" {
		return models.Event{}, fmt.Errorf("event date and title required")
	}
	t, err := c.ensureTable(ctx, SheetEvents, eventHeader)
	if err != nil {
		return models.Event{}, err
	}
	e.ID = uuid.NewString()
	row := rowFor(t.header, map[string]interface{}{
		"id": e.ID, "date": e.Date, "title": e.Title, "place": e.Place, "memo": e.Memo,
	})
	if err := c.appendRow(ctx, SheetEvents, row); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// ---------- Practice logs ----------

func practiceFromValues(values [][]interface{}) []models.PracticeLog {
	t := parseTable(values)
	out := []models.PracticeLog{}
	for _, row := range t.rows {
		if len(row) == 0 {
			continue
		}
		out = append(out, models.PracticeLog{
			ID:       t.get(row, "id"),
			Date:     t.get(row, "date"),
			PlayerID: t.get(row, "player_id"),
			Menu:     t.get(row, "menu"),
			Distance: t.get(row, "distance"),
			Time:     t.get(row, "time"),
			Memo:     t.get(row, "memo"),
		})
	}
	return out
}

// ListPractice returns practice logs, filtered by player when playerID is set.
func (c *Client) ListPractice(ctx context.Context, playerID string) ([]models.PracticeLog, error) {
	values, err := c.readAll(ctx, SheetPractice)
	if err != nil {
		return nil, err
	}
	logs := practiceFromValues(values)
	if playerID == "" {
		return logs, nil
	}
	out := []models.PracticeLog{}
	for _, l := range logs {
		if l.PlayerID == playerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (c *Client) AddPractice(ctx context.Context, l models.PracticeLog) (models.PracticeLog, error) {
	t, err := c.ensureTable(ctx, SheetPractice, practiceHeader)
	if err != nil {
		return models.PracticeLog{}, err
	}
	l.ID = uuid.NewString()
	if strings.TrimSpace(l.Date) == "" {
		l.Date = util.Today()
	}
	row := rowFor(t.header, map[string]interface{}{
		"id": l.ID, "date": l.Date, "player_id": l.PlayerID, "menu": l.Menu,
		"distance": l.Distance, "time": l.Time, "memo": l.Memo,
	})
	if err := c.appendRow(ctx, SheetPractice, row); err != nil {
		return models.PracticeLog{}, err
	}
	return l, nil
}

// ---------- Attendance ----------

func attendanceFromValues(values [][]interface{}) []models.Attendance {
	t := parseTable(values)
	out := []models.Attendance{}
	for _, row := range t.rows {
		a := models.Attendance{
			Date:     t.get(row, "date"),
			PlayerID: t.get(row, "player_id"),
			Status:   t.get(row, "status"),
			Memo:     t.get(row, "memo"),
		}
		if a.Date == "" || a.PlayerID == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}

// ListAttendance returns attendance rows, filtered by date when date is set.
func (c *Client) ListAttendance(ctx context.Context, date string) ([]models.Attendance, error) {
	values, err := c.readAll(ctx, SheetAttendance)
	if err != nil {
		return nil, err
	}
	all := attendanceFromValues(values)
	if date == "" {
		return all, nil
	}
	out := []models.Attendance{}
	for _, a := range all {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out, nil
}

// SetAttendance upserts the row for (date, player).
func (c *Client) SetAttendance(ctx context.Context, a models.Attendance) error {
	if a.PlayerID == "" {
		return fmt.Errorf("attendance player_id required")
	}
	if a.Date == "" {
		a.Date = util.Today()
	}
	t, err := c.ensureTable(ctx, SheetAttendance, attendanceHeader)
	if err != nil {
		return err
	}
	row := rowFor(t.header, map[string]interface{}{
		"date": a.Date, "player_id": a.PlayerID, "status": a.Status, "memo": a.Memo,
	})
	for i, r := range t.rows {
		if t.get(r, "date") == a.Date && t.get(r, "player_id") == a.PlayerID {
			return c.updateRow(ctx, SheetAttendance, rowNum(i), row)
		}
	}
	return c.appendRow(ctx, SheetAttendance, row)
}

// ---------- Simulations (relay order drafts) ----------

func simulationsFromValues(values [][]interface{}) []models.Simulation {
	t := parseTable(values)
	out := []models.Simulation{}
	for _, row := range t.rows {
		if len(row) == 0 {
			continue
		}
		s := models.Simulation{
			CreatedAt: t.get(row, "created_at"),
			Title:     t.get(row, "title"),
			OrderData: decodeOrder(t.get(row, "order_data")),
		}
		out = append(out, s)
	}
	return out
}

// decodeOrder reads the stored order JSON; numbers stay exact and anything
// unreadable becomes an empty order.
func decodeOrder(raw string) map[string]any {
	out := map[string]any{}
	if raw == "" {
		return out
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return map[string]any{}
	}
	return out
}

func (c *Client) ListSimulations(ctx context.Context) ([]models.Simulation, error) {
	values, err := c.readAll(ctx, SheetSimulations)
	if err != nil {
		return nil, err
	}
	return simulationsFromValues(values), nil
}

func (c *Client) SaveSimulation(ctx context.Context, s models.Simulation) (models.Simulation, error) {
	t, err := c.ensureTable(ctx, SheetSimulations, simulationHeader)
	if err != nil {
		return models.Simulation{}, err
	}
	if s.OrderData == nil {
		s.OrderData = map[string]any{}
	}
	data, err := json.Marshal(s.OrderData)
	if err != nil {
		return models.Simulation{}, err
	}
	s.CreatedAt = util.NowLocal()
	row := rowFor(t.header, map[string]interface{}{
		"created_at": s.CreatedAt, "title": s.Title, "order_data": string(data),
	})
	if err := c.appendRow(ctx, SheetSimulations, row); err != nil {
		return models.Simulation{}, err
	}
	return s, nil
}
