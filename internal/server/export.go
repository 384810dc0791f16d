package server

import (
	"encoding/csv"
	"io"
	"log"
	"net/http"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"ekiden-club/internal/calc"
	"ekiden-club/internal/models"
	"ekiden-club/internal/util"
)

// ExportMessage is the HMAC message behind the records export token.
const ExportMessage = "export:records"

var csvHeader = []string{"date", "player_id", "player_name", "event", "time", "distance", "pace", "race_name", "section", "rank", "memo"}

// WriteRecordsCSV writes recs as CSV. Missing player names are filled from names.
func WriteRecordsCSV(w io.Writer, recs []models.Record, names map[string]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range recs {
		name := r.PlayerName
		if name == "" {
			name = names[r.PlayerID]
		}
		pace, _ := calc.CalcPace(r.Time, r.Distance)
		if err := cw.Write([]string{
			r.Date, r.PlayerID, name, r.Event, r.Time, r.Distance, pace,
			r.RaceName, r.Section, r.Rank, r.Memo,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (h *handler) exportRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	token := q.Get("token")
	if token == "" {
		http.Error(w, "token required", http.StatusBadRequest)
		return
	}
	if !util.ValidToken(h.cfg.ExportSecret, ExportMessage, token) {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}

	ctx := r.Context()
	var (
		recs []models.Record
		err  error
	)
	if player := q.Get("player"); player != "" {
		recs, err = h.st.RecordsByPlayer(ctx, player)
	} else {
		recs, err = h.st.ListRecords(ctx)
	}
	if err != nil {
		log.Printf("export records: %v", err)
		http.Error(w, "failed to read records", http.StatusInternalServerError)
		return
	}
	names, err := h.st.PlayerNames(ctx)
	if err != nil {
		log.Printf("export player names: %v", err)
		http.Error(w, "failed to read players", http.StatusInternalServerError)
		return
	}

	var out io.Writer = w
	if q.Get("encoding") == "sjis" {
		w.Header().Set("Content-Type", "text/csv; charset=Shift_JIS")
		tw := transform.NewWriter(w, encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder()))
		defer tw.Close()
		out = tw
	} else {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	}
	w.Header().Set("Content-Disposition", `attachment; filename="records.csv"`)
	if err := WriteRecordsCSV(out, recs, names); err != nil {
		log.Printf("write csv: %v", err)
	}
}
