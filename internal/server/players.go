package server

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"ekiden-club/internal/calc"
	"ekiden-club/internal/drive"
	"ekiden-club/internal/models"
	"ekiden-club/internal/records"
)

type recordView struct {
	models.Record
	Pace string `json:"pace,omitempty"`
}

type playerDetail struct {
	Player        models.Player       `json:"player"`
	Records       []recordView        `json:"records"`
	PersonalBests []records.EventBest `json:"personal_bests"`
}

func withPace(recs []models.Record) []recordView {
	out := make([]recordView, 0, len(recs))
	for _, r := range recs {
		v := recordView{Record: r}
		if p, ok := calc.CalcPace(r.Time, r.Distance); ok {
			v.Pace = p
		}
		out = append(out, v)
	}
	return out
}

func (h *handler) listPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.st.ListPlayers(r.Context())
	if err != nil {
		storeError(w, "list players", err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

func (h *handler) addPlayer(w http.ResponseWriter, r *http.Request) {
	var p models.Player
	if !decodeBody(w, r, &p) {
		return
	}
	if strings.TrimSpace(p.Name) == "" {
		writeError(w, http.StatusBadRequest, "名前を入力してください")
		return
	}
	id, err := h.st.AddPlayer(r.Context(), p)
	if err != nil {
		storeError(w, "add player", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *handler) playerDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, err := h.st.GetPlayer(r.Context(), id)
	if err != nil {
		storeError(w, "get player", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "選手が見つかりません")
		return
	}
	recs, err := h.st.RecordsByPlayer(r.Context(), id)
	if err != nil {
		storeError(w, "player records", err)
		return
	}
	if p.PhotoURL == "" && h.photos != nil {
		// sheet has no url, ask Drive
		if url, err := h.photos.PhotoURL(r.Context(), id); err != nil {
			log.Printf("photo url %s: %v", id, err)
		} else {
			p.PhotoURL = url
		}
	}
	writeJSON(w, http.StatusOK, playerDetail{
		Player:        *p,
		Records:       withPace(recs),
		PersonalBests: records.SortedBests(records.PersonalBests(recs)),
	})
}

func (h *handler) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	if h.photos == nil {
		writeError(w, http.StatusServiceUnavailable, "写真の保存先が設定されていません")
		return
	}
	id := r.PathValue("id")
	p, err := h.st.GetPlayer(r.Context(), id)
	if err != nil {
		storeError(w, "get player", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "選手が見つかりません")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, drive.MaxPhotoSize+(1<<20))
	f, fh, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "写真ファイルを選択してください")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, drive.MaxPhotoSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "写真を読み込めませんでした")
		return
	}
	mime := fh.Header.Get("Content-Type")
	if err := drive.Validate(data, mime); err != nil {
		switch {
		case errors.Is(err, drive.ErrUnsupportedType):
			writeError(w, http.StatusBadRequest, "許可されていないファイル形式です。JPEG, PNG, GIF, WebPのみ対応しています。")
		default:
			writeError(w, http.StatusBadRequest, "ファイルサイズが大きすぎます。5MB以下にしてください。")
		}
		return
	}

	photo, err := h.photos.Upload(r.Context(), id, data, mime)
	if err != nil {
		storeError(w, "upload photo", err)
		return
	}
	if err := h.st.UpdatePlayerPhoto(r.Context(), id, photo.URL); err != nil {
		storeError(w, "save photo url", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": photo.URL, "file_id": photo.FileID})
}

func (h *handler) deletePhoto(w http.ResponseWriter, r *http.Request) {
	if h.photos == nil {
		writeError(w, http.StatusServiceUnavailable, "写真の保存先が設定されていません")
		return
	}
	id := r.PathValue("id")
	p, err := h.st.GetPlayer(r.Context(), id)
	if err != nil {
		storeError(w, "get player", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "選手が見つかりません")
		return
	}
	if err := h.photos.RemovePhotos(r.Context(), id); err != nil {
		storeError(w, "remove photos", err)
		return
	}
	if err := h.st.UpdatePlayerPhoto(r.Context(), id, ""); err != nil {
		storeError(w, "clear photo url", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
