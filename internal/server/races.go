package server

import (
	"net/http"
	"strings"

	"ekiden-club/internal/calc"
	"ekiden-club/internal/legacy"
	"ekiden-club/internal/models"
	"ekiden-club/internal/records"
)

func (h *handler) addRecord(w http.ResponseWriter, r *http.Request) {
	var rec models.Record
	if !decodeBody(w, r, &rec) {
		return
	}
	if !validRecord(w, rec) {
		return
	}
	saved, err := h.st.AddRecord(r.Context(), rec)
	if err != nil {
		storeError(w, "add record", err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *handler) updateRecord(w http.ResponseWriter, r *http.Request) {
	var rec models.Record
	if !decodeBody(w, r, &rec) {
		return
	}
	rec.ID = r.PathValue("id")
	if !validRecord(w, rec) {
		return
	}
	if err := h.st.UpdateRecord(r.Context(), rec); err != nil {
		storeError(w, "update record", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.st.DeleteRecord(r.Context(), r.PathValue("id")); err != nil {
		storeError(w, "delete record", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validRecord(w http.ResponseWriter, rec models.Record) bool {
	if strings.TrimSpace(rec.PlayerID) == "" || strings.TrimSpace(rec.Event) == "" {
		writeError(w, http.StatusBadRequest, "選手と種目を入力してください")
		return false
	}
	if _, ok := calc.TimeToSeconds(rec.Time); !ok {
		writeError(w, http.StatusBadRequest, "タイムは M:SS または H:MM:SS で入力してください")
		return false
	}
	return true
}

func (h *handler) listRaces(w http.ResponseWriter, r *http.Request) {
	recs, err := h.st.ListRecords(r.Context())
	if err != nil {
		storeError(w, "list records", err)
		return
	}
	names, err := h.st.PlayerNames(r.Context())
	if err != nil {
		storeError(w, "player names", err)
		return
	}
	races := records.GroupByRace(recs, names)
	if races == nil {
		races = []records.RaceSummary{}
	}
	writeJSON(w, http.StatusOK, races)
}

func (h *handler) tieBreak(r *http.Request) records.TimeCompare {
	if v := r.URL.Query().Get("tiebreak"); v != "" {
		return records.CompareByName(v)
	}
	return h.cmp
}

type sectionView struct {
	RaceName string       `json:"race_name"`
	Section  string       `json:"section"`
	Records  []recordView `json:"records"`
	Average  string       `json:"average,omitempty"`
}

func (h *handler) sectionResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	race, section := q.Get("race"), q.Get("section")
	if race == "" || section == "" {
		writeError(w, http.StatusBadRequest, "大会名と区間を指定してください")
		return
	}
	recs, err := h.st.ListRecords(r.Context())
	if err != nil {
		storeError(w, "list records", err)
		return
	}
	res := records.SectionResultsWith(recs, race, section, h.tieBreak(r))

	view := sectionView{RaceName: res.RaceName, Section: res.Section, Records: withPace(res.Records)}
	times := make([]string, 0, len(res.Records))
	for _, rec := range res.Records {
		times = append(times, rec.Time)
	}
	if avg, ok := calc.AverageSeconds(times); ok {
		if s, ok := calc.CalcAvgTimeDisplay(avg); ok {
			view.Average = s
		}
	}
	writeJSON(w, http.StatusOK, view)
}

type legacyView struct {
	Records []legacy.JoinedRecord `json:"records"`
	Average string                `json:"average,omitempty"`
	Decoded int                   `json:"decoded"`
	Skipped int                   `json:"skipped"`
}

func (h *handler) legacyResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filters []func(models.LegacyCellRecord) bool
	if team := strings.TrimSpace(q.Get("team")); team != "" {
		filters = append(filters, legacy.ByTeam(team))
	}
	if v := q.Get("edition"); v != "" {
		ed, ok := legacy.EditionNumber(v)
		if !ok {
			writeError(w, http.StatusBadRequest, "大会回数が正しくありません")
			return
		}
		filters = append(filters, legacy.ByEdition(ed))
	}
	if v := q.Get("section"); v != "" {
		ord, ok := legacy.SectionOrdinal(v)
		if !ok {
			writeError(w, http.StatusBadRequest, "区間が正しくありません")
			return
		}
		filters = append(filters, legacy.BySection(ord))
	}

	ctx := r.Context()
	header, rows, err := h.st.LegacySheet(ctx)
	if err != nil {
		storeError(w, "legacy sheet", err)
		return
	}
	tHeader, tRows, err := h.st.TemperatureSheet(ctx)
	if err != nil {
		storeError(w, "temperature sheet", err)
		return
	}
	recs, err := h.st.ListRecords(ctx)
	if err != nil {
		storeError(w, "list records", err)
		return
	}

	decoded, stats := legacy.DecodeSheet(header, rows, legacy.All(filters...))
	ranked := legacy.SortByRank(decoded, h.tieBreak(r))
	joined := legacy.Join(ranked,
		legacy.BuildDistanceTable(recs, h.cfg.LegacyMarkers),
		legacy.BuildTemperatureTable(tHeader, tRows))

	view := legacyView{Records: joined, Decoded: stats.Decoded, Skipped: stats.Skipped}
	if avg, ok := legacy.SectionAverage(decoded); ok {
		view.Average = avg
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *handler) pace(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, ok := calc.CalcPace(q.Get("time"), q.Get("distance"))
	if !ok {
		writeError(w, http.StatusBadRequest, "タイムと距離からペースを計算できません")
		return
	}
	km, _ := calc.ParseDistanceKm(q.Get("distance"))
	secs, _ := calc.TimeToSeconds(q.Get("time"))
	writeJSON(w, http.StatusOK, map[string]any{"pace": p, "distance_km": km, "time": calc.FormatSeconds(secs)})
}
