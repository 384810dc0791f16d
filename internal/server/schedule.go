package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"ekiden-club/internal/calendar"
	"ekiden-club/internal/models"
)

type calendarView struct {
	calendar.Grid
	PrevYear  int        `json:"prev_year"`
	PrevMonth time.Month `json:"prev_month"`
	NextYear  int        `json:"next_year"`
	NextMonth time.Month `json:"next_month"`
}

func (h *handler) calendar(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year, month := now.Year(), now.Month()
	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			writeError(w, http.StatusBadRequest, "年が正しくありません")
			return
		}
		year = y
	}
	if v := q.Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeError(w, http.StatusBadRequest, "月が正しくありません")
			return
		}
		month = time.Month(m)
	}

	events, err := h.st.ListEvents(r.Context())
	if err != nil {
		storeError(w, "list events", err)
		return
	}
	g := calendar.Month(year, month, time.Sunday, events)
	view := calendarView{Grid: g}
	view.PrevYear, view.PrevMonth = g.Prev()
	view.NextYear, view.NextMonth = g.Next()
	writeJSON(w, http.StatusOK, view)
}

func (h *handler) addEvent(w http.ResponseWriter, r *http.Request) {
	var e models.Event
	if !decodeBody(w, r, &e) {
		return
	}
	if strings.TrimSpace(e.Date) == "" || strings.TrimSpace(e.Title) == "" {
		writeError(w, http.StatusBadRequest, "日付とタイトルを入力してください")
		return
	}
	saved, err := h.st.AddEvent(r.Context(), e)
	if err != nil {
		storeError(w, "add event", err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *handler) listPractice(w http.ResponseWriter, r *http.Request) {
	logs, err := h.st.ListPractice(r.Context(), r.URL.Query().Get("player"))
	if err != nil {
		storeError(w, "list practice", err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *handler) addPractice(w http.ResponseWriter, r *http.Request) {
	var l models.PracticeLog
	if !decodeBody(w, r, &l) {
		return
	}
	if strings.TrimSpace(l.PlayerID) == "" || strings.TrimSpace(l.Menu) == "" {
		writeError(w, http.StatusBadRequest, "選手とメニューを入力してください")
		return
	}
	saved, err := h.st.AddPractice(r.Context(), l)
	if err != nil {
		storeError(w, "add practice", err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *handler) listAttendance(w http.ResponseWriter, r *http.Request) {
	list, err := h.st.ListAttendance(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		storeError(w, "list attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

var attendanceStatuses = map[string]bool{"present": true, "absent": true, "late": true}

func (h *handler) setAttendance(w http.ResponseWriter, r *http.Request) {
	var a models.Attendance
	if !decodeBody(w, r, &a) {
		return
	}
	if strings.TrimSpace(a.Date) == "" || strings.TrimSpace(a.PlayerID) == "" {
		writeError(w, http.StatusBadRequest, "日付と選手を入力してください")
		return
	}
	if !attendanceStatuses[a.Status] {
		writeError(w, http.StatusBadRequest, "出欠は present, absent, late のいずれかです")
		return
	}
	if err := h.st.SetAttendance(r.Context(), a); err != nil {
		storeError(w, "set attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *handler) listSimulations(w http.ResponseWriter, r *http.Request) {
	sims, err := h.st.ListSimulations(r.Context())
	if err != nil {
		storeError(w, "list simulations", err)
		return
	}
	writeJSON(w, http.StatusOK, sims)
}

func (h *handler) saveSimulation(w http.ResponseWriter, r *http.Request) {
	var s models.Simulation
	if !decodeBody(w, r, &s) {
		return
	}
	if strings.TrimSpace(s.Title) == "" {
		writeError(w, http.StatusBadRequest, "タイトルを入力してください")
		return
	}
	saved, err := h.st.SaveSimulation(r.Context(), s)
	if err != nil {
		storeError(w, "save simulation", err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}
