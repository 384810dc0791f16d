package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"ekiden-club/internal/config"
	"ekiden-club/internal/drive"
	"ekiden-club/internal/models"
	"ekiden-club/internal/records"
	"ekiden-club/internal/sheets"
)

// Store is the spreadsheet-backed data access the handlers need.
type Store interface {
	ListPlayers(ctx context.Context) ([]models.Player, error)
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	PlayerNames(ctx context.Context) (map[string]string, error)
	AddPlayer(ctx context.Context, p models.Player) (string, error)
	UpdatePlayerPhoto(ctx context.Context, id, url string) error

	ListRecords(ctx context.Context) ([]models.Record, error)
	RecordsByPlayer(ctx context.Context, playerID string) ([]models.Record, error)
	AddRecord(ctx context.Context, r models.Record) (models.Record, error)
	UpdateRecord(ctx context.Context, r models.Record) error
	DeleteRecord(ctx context.Context, id string) error

	LegacySheet(ctx context.Context) ([]string, [][]string, error)
	TemperatureSheet(ctx context.Context) ([]string, [][]string, error)

	ListEvents(ctx context.Context) ([]models.Event, error)
	AddEvent(ctx context.Context, e models.Event) (models.Event, error)
	ListPractice(ctx context.Context, playerID string) ([]models.PracticeLog, error)
	AddPractice(ctx context.Context, l models.PracticeLog) (models.PracticeLog, error)
	ListAttendance(ctx context.Context, date string) ([]models.Attendance, error)
	SetAttendance(ctx context.Context, a models.Attendance) error
	ListSimulations(ctx context.Context) ([]models.Simulation, error)
	SaveSimulation(ctx context.Context, s models.Simulation) (models.Simulation, error)
}

// PhotoStore keeps player photos.
type PhotoStore interface {
	Upload(ctx context.Context, playerID string, data []byte, mimeType string) (drive.Photo, error)
	PhotoURL(ctx context.Context, playerID string) (string, error)
	RemovePhotos(ctx context.Context, playerID string) error
}

type handler struct {
	cfg    config.Config
	st     Store
	photos PhotoStore
	cmp    records.TimeCompare
}

// New builds the HTTP server. photos may be nil when no Drive folder is set.
func New(cfg config.Config, st Store, photos PhotoStore) *http.Server {
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: NewHandler(cfg, st, photos),
	}
}

func NewHandler(cfg config.Config, st Store, photos PhotoStore) http.Handler {
	h := &handler{cfg: cfg, st: st, photos: photos, cmp: records.CompareByName(cfg.SectionTieBreak)}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/players", h.listPlayers)
	mux.HandleFunc("POST /api/players", h.addPlayer)
	mux.HandleFunc("GET /api/players/{id}", h.playerDetail)
	mux.HandleFunc("POST /api/players/{id}/photo", h.uploadPhoto)
	mux.HandleFunc("DELETE /api/players/{id}/photo", h.deletePhoto)

	mux.HandleFunc("POST /api/records", h.addRecord)
	mux.HandleFunc("PUT /api/records/{id}", h.updateRecord)
	mux.HandleFunc("DELETE /api/records/{id}", h.deleteRecord)

	mux.HandleFunc("GET /api/races", h.listRaces)
	mux.HandleFunc("GET /api/races/section", h.sectionResults)
	mux.HandleFunc("GET /api/legacy", h.legacyResults)
	mux.HandleFunc("GET /api/pace", h.pace)

	mux.HandleFunc("GET /api/calendar", h.calendar)
	mux.HandleFunc("POST /api/events", h.addEvent)
	mux.HandleFunc("GET /api/practice", h.listPractice)
	mux.HandleFunc("POST /api/practice", h.addPractice)
	mux.HandleFunc("GET /api/attendance", h.listAttendance)
	mux.HandleFunc("POST /api/attendance", h.setAttendance)
	mux.HandleFunc("GET /api/simulations", h.listSimulations)
	mux.HandleFunc("POST /api/simulations", h.saveSimulation)

	// CSV export (link with token = HMAC)
	mux.HandleFunc("GET /export/records.csv", h.exportRecords)

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// storeError logs the failure and answers with a user-facing message.
func storeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, sheets.ErrNotFound) {
		writeError(w, http.StatusNotFound, "データが見つかりません")
		return
	}
	log.Printf("%s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "スプレッドシートとの通信に失敗しました")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "リクエストの形式が正しくありません")
		return false
	}
	return true
}
