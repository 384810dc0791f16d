package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"ekiden-club/internal/models"
	"ekiden-club/internal/util"
)

const (
	SheetPlayers     = "Players"
	SheetRecords     = "Records"
	SheetEvents      = "Events"
	SheetPractice    = "PracticeLogs"
	SheetAttendance  = "Attendance"
	SheetSimulations = "Simulations"
	SheetLegacy      = "EkidenHistory"
	SheetTemperature = "EkidenTemperature"
)

var (
	playerHeader = []string{"id", "name", "group", "best_5000m", "target_time", "active", "photo_url"}
	recordHeader = []string{"id", "date", "player_id", "player_name", "event", "section", "time", "distance", "memo", "race_name", "race_type", "rank"}
)

// readAll returns the whole worksheet, served from the cache while fresh.
// The range is the bare sheet name so no column limit applies.
// A worksheet that does not exist reads as empty.
func (c *Client) readAll(ctx context.Context, sheet string) ([][]interface{}, error) {
	if v, ok := c.cache.Get(sheet); ok {
		return v.([][]interface{}), nil
	}
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, sheet).Context(ctx).Do()
	if err != nil {
		if isMissingSheet(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", sheet, err)
	}
	c.cache.Set(sheet, resp.Values)
	return resp.Values, nil
}

func (c *Client) appendRow(ctx context.Context, sheet string, row []interface{}) error {
	defer c.cache.Invalidate(sheet)
	vr := &sheetsv4.ValueRange{Values: [][]interface{}{row}}
	_, err := c.srv.Spreadsheets.Values.Append(c.spreadsheetID, sheet, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append %s: %w", sheet, err)
	}
	return nil
}

func (c *Client) updateRow(ctx context.Context, sheet string, num int, row []interface{}) error {
	defer c.cache.Invalidate(sheet)
	a1 := fmt.Sprintf("%s!A%d:%s%d", sheet, num, columnLetter(len(row)), num)
	vr := &sheetsv4.ValueRange{Values: [][]interface{}{row}}
	_, err := c.srv.Spreadsheets.Values.Update(c.spreadsheetID, a1, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update %s row %d: %w", sheet, num, err)
	}
	return nil
}

func (c *Client) updateCell(ctx context.Context, sheet, a1 string, value interface{}) error {
	defer c.cache.Invalidate(sheet)
	vr := &sheetsv4.ValueRange{Values: [][]interface{}{{value}}}
	_, err := c.srv.Spreadsheets.Values.Update(c.spreadsheetID, sheet+"!"+a1, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update %s!%s: %w", sheet, a1, err)
	}
	return nil
}

func (c *Client) deleteRow(ctx context.Context, sheet string, num int) error {
	defer c.cache.Invalidate(sheet)
	id, err := c.sheetID(ctx, sheet)
	if err != nil {
		return err
	}
	req := &sheetsv4.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsv4.Request{{
			DeleteDimension: &sheetsv4.DeleteDimensionRequest{
				Range: &sheetsv4.DimensionRange{
					SheetId:    id,
					Dimension:  "ROWS",
					StartIndex: int64(num - 1),
					EndIndex:   int64(num),
				},
			},
		}},
	}
	if _, err := c.srv.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete %s row %d: %w", sheet, num, err)
	}
	return nil
}

// ensureTable reads a worksheet, creating it with header when it is missing
// or blank.
func (c *Client) ensureTable(ctx context.Context, sheet string, header []string) (table, error) {
	values, err := c.readAll(ctx, sheet)
	if err != nil {
		return table{}, err
	}
	if len(values) > 0 {
		return parseTable(values), nil
	}
	if _, err := c.sheetID(ctx, sheet); errors.Is(err, ErrNotFound) {
		if err := c.addSheet(ctx, sheet); err != nil {
			return table{}, err
		}
	} else if err != nil {
		return table{}, err
	}
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := c.appendRow(ctx, sheet, row); err != nil {
		return table{}, err
	}
	return parseTable([][]interface{}{row}), nil
}

func (c *Client) addSheet(ctx context.Context, sheet string) error {
	req := &sheetsv4.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsv4.Request{{
			AddSheet: &sheetsv4.AddSheetRequest{
				Properties: &sheetsv4.SheetProperties{Title: sheet},
			},
		}},
	}
	resp, err := c.srv.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add worksheet %s: %w", sheet, err)
	}
	if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil && resp.Replies[0].AddSheet.Properties != nil {
		c.mu.Lock()
		c.sheetIDs[sheet] = resp.Replies[0].AddSheet.Properties.SheetId
		c.mu.Unlock()
	}
	return nil
}

// EnsureHeaders creates any missing worksheet with its default header row.
func (c *Client) EnsureHeaders(ctx context.Context) error {
	for sheet, header := range map[string][]string{
		SheetPlayers:     playerHeader,
		SheetRecords:     recordHeader,
		SheetEvents:      eventHeader,
		SheetPractice:    practiceHeader,
		SheetAttendance:  attendanceHeader,
		SheetSimulations: simulationHeader,
	} {
		if _, err := c.ensureTable(ctx, sheet, header); err != nil {
			return err
		}
	}
	return nil
}

func isMissingSheet(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	return gerr.Code == http.StatusBadRequest && strings.Contains(gerr.Message, "Unable to parse range")
}

// ---------- Players ----------

func playersFromValues(values [][]interface{}) []models.Player {
	t := parseTable(values)
	players := []models.Player{}
	for _, row := range t.rows {
		if len(row) == 0 {
			continue
		}
		p := models.Player{
			ID:         t.get(row, "id"),
			Name:       t.get(row, "name"),
			Group:      t.get(row, "group"),
			Best5000m:  t.get(row, "best_5000m"),
			TargetTime: t.get(row, "target_time"),
			Active:     t.get(row, "active"),
			PhotoURL:   t.get(row, "photo_url"),
		}
		if !t.has("active") {
			p.Active = "TRUE"
		}
		if p.ID == "" {
			continue
		}
		players = append(players, p)
	}
	return players
}

// ListPlayers returns active players only.
func (c *Client) ListPlayers(ctx context.Context) ([]models.Player, error) {
	values, err := c.readAll(ctx, SheetPlayers)
	if err != nil {
		return nil, err
	}
	out := []models.Player{}
	for _, p := range playersFromValues(values) {
		if util.NormalizeBool(p.Active) {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetPlayer returns nil when no active player has the id.
func (c *Client) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	players, err := c.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		if p.ID == id {
			pp := p
			return &pp, nil
		}
	}
	return nil, nil
}

// PlayerNames maps player id to name for every active player.
func (c *Client) PlayerNames(ctx context.Context) (map[string]string, error) {
	players, err := c.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(players))
	for _, p := range players {
		m[p.ID] = p.Name
	}
	return m, nil
}

// AddPlayer appends an active player. The id is the sheet's row count, so
// the first player below the header gets id 1.
func (c *Client) AddPlayer(ctx context.Context, p models.Player) (string, error) {
	if strings.TrimSpace(p.Name) == "" {
		return "", fmt.Errorf("player name empty")
	}
	if _, err := c.ensureTable(ctx, SheetPlayers, playerHeader); err != nil {
		return "", err
	}
	values, err := c.readAll(ctx, SheetPlayers)
	if err != nil {
		return "", err
	}
	t := parseTable(values)
	id := strconv.Itoa(len(values))
	row := rowFor(t.header, map[string]interface{}{
		"id":          id,
		"name":        strings.TrimSpace(p.Name),
		"group":       p.Group,
		"best_5000m":  p.Best5000m,
		"target_time": p.TargetTime,
		"active":      "TRUE",
		"photo_url":   p.PhotoURL,
	})
	if err := c.appendRow(ctx, SheetPlayers, row); err != nil {
		return "", err
	}
	return id, nil
}

func (c *Client) UpdatePlayerPhoto(ctx context.Context, id, url string) error {
	values, err := c.readAll(ctx, SheetPlayers)
	if err != nil {
		return err
	}
	t := parseTable(values)
	col, ok := t.index["photo_url"]
	if !ok {
		return fmt.Errorf("%s has no photo_url column", SheetPlayers)
	}
	for i, row := range t.rows {
		if t.get(row, "id") == id {
			a1 := fmt.Sprintf("%s%d", columnLetter(col+1), rowNum(i))
			return c.updateCell(ctx, SheetPlayers, a1, url)
		}
	}
	return fmt.Errorf("player %s: %w", id, ErrNotFound)
}

// ---------- Records ----------

func recordsFromValues(values [][]interface{}) []models.Record {
	t := parseTable(values)
	recs := []models.Record{}
	for _, row := range t.rows {
		if len(row) == 0 {
			continue
		}
		recs = append(recs, recordFromRow(t, row))
	}
	return recs
}

func recordFromRow(t table, row []interface{}) models.Record {
	return models.Record{
		ID:         t.get(row, "id"),
		Date:       t.get(row, "date"),
		PlayerID:   t.get(row, "player_id"),
		PlayerName: t.get(row, "player_name"),
		Event:      t.get(row, "event"),
		Section:    t.get(row, "section"),
		Time:       t.get(row, "time"),
		Distance:   t.get(row, "distance"),
		Memo:       t.get(row, "memo"),
		RaceName:   t.get(row, "race_name"),
		RaceType:   t.get(row, "race_type"),
		Rank:       t.get(row, "rank"),
	}
}

func recordValues(r models.Record) map[string]interface{} {
	return map[string]interface{}{
		"id":          r.ID,
		"date":        r.Date,
		"player_id":   r.PlayerID,
		"player_name": r.PlayerName,
		"event":       r.Event,
		"section":     r.Section,
		"time":        r.Time,
		"distance":    r.Distance,
		"memo":        r.Memo,
		"race_name":   r.RaceName,
		"race_type":   r.RaceType,
		"rank":        r.Rank,
	}
}

func (c *Client) ListRecords(ctx context.Context) ([]models.Record, error) {
	values, err := c.readAll(ctx, SheetRecords)
	if err != nil {
		return nil, err
	}
	return recordsFromValues(values), nil
}

func (c *Client) RecordsByPlayer(ctx context.Context, playerID string) ([]models.Record, error) {
	recs, err := c.ListRecords(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Record{}
	for _, r := range recs {
		if r.PlayerID == playerID {
			out = append(out, r)
		}
	}
	return out, nil
}

// AddRecord appends r with a fresh id; a blank date becomes today.
func (c *Client) AddRecord(ctx context.Context, r models.Record) (models.Record, error) {
	t, err := c.ensureTable(ctx, SheetRecords, recordHeader)
	if err != nil {
		return models.Record{}, err
	}
	r.ID = uuid.NewString()
	if strings.TrimSpace(r.Date) == "" {
		r.Date = util.Today()
	}
	if err := c.appendRow(ctx, SheetRecords, rowFor(t.header, recordValues(r))); err != nil {
		return models.Record{}, err
	}
	return r, nil
}

// UpdateRecord rewrites the row holding r.ID in place.
func (c *Client) UpdateRecord(ctx context.Context, r models.Record) error {
	values, err := c.readAll(ctx, SheetRecords)
	if err != nil {
		return err
	}
	t := parseTable(values)
	i := findRow(t, "id", r.ID)
	if i < 0 {
		return fmt.Errorf("record %s: %w", r.ID, ErrNotFound)
	}
	if strings.TrimSpace(r.Date) == "" {
		r.Date = t.get(t.rows[i], "date")
	}
	return c.updateRow(ctx, SheetRecords, rowNum(i), rowFor(t.header, recordValues(r)))
}

func (c *Client) DeleteRecord(ctx context.Context, id string) error {
	values, err := c.readAll(ctx, SheetRecords)
	if err != nil {
		return err
	}
	t := parseTable(values)
	i := findRow(t, "id", id)
	if i < 0 {
		return fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	return c.deleteRow(ctx, SheetRecords, rowNum(i))
}

func findRow(t table, col, val string) int {
	if val == "" {
		return -1
	}
	for i, row := range t.rows {
		if t.get(row, col) == val {
			return i
		}
	}
	return -1
}

// ---------- Historical relay sheets ----------

// LegacySheet returns the packed historical relay sheet as header + rows.
func (c *Client) LegacySheet(ctx context.Context) ([]string, [][]string, error) {
	return c.stringSheet(ctx, SheetLegacy)
}

// TemperatureSheet returns the per-edition, per-section temperature sheet.
func (c *Client) TemperatureSheet(ctx context.Context) ([]string, [][]string, error) {
	return c.stringSheet(ctx, SheetTemperature)
}

func (c *Client) stringSheet(ctx context.Context, sheet string) ([]string, [][]string, error) {
	values, err := c.readAll(ctx, sheet)
	if err != nil {
		return nil, nil, err
	}
	header, rows := splitHeader(values)
	return header, rows, nil
}

func splitHeader(values [][]interface{}) ([]string, [][]string) {
	if len(values) == 0 {
		return nil, nil
	}
	header := toStrings(values[0])
	rows := make([][]string, 0, len(values)-1)
	for _, r := range values[1:] {
		rows = append(rows, toStrings(r))
	}
	return header, rows
}
