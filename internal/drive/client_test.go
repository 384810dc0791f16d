package drive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"
)

func TestValidate(t *testing.T) {
	if err := Validate([]byte("x"), "image/png"); err != nil {
		t.Errorf("png should be accepted: %v", err)
	}
	if err := Validate([]byte("x"), "application/pdf"); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("pdf err = %v, want ErrUnsupportedType", err)
	}
	big := make([]byte, MaxPhotoSize+1)
	if err := Validate(big, "image/jpeg"); !errors.Is(err, ErrTooLarge) {
		t.Errorf("oversize err = %v, want ErrTooLarge", err)
	}
	if err := Validate(make([]byte, MaxPhotoSize), "image/webp"); err != nil {
		t.Errorf("exactly max size should pass: %v", err)
	}
}

func TestFileNameAndURL(t *testing.T) {
	if got := FileName("12", "image/webp"); got != "player_12.webp" {
		t.Errorf("FileName = %q", got)
	}
	if got := FileName("12", "image/unknown"); got != "player_12.jpg" {
		t.Errorf("FileName fallback = %q", got)
	}
	if got := ThumbnailURL("abc"); got != "https://drive.google.com/thumbnail?id=abc&sz=w200" {
		t.Errorf("ThumbnailURL = %q", got)
	}
}

func TestSearchQuery(t *testing.T) {
	want := "name contains 'player_7' and 'folder' in parents and trashed=false"
	if got := searchQuery("7", "folder"); got != want {
		t.Errorf("searchQuery = %q, want %q", got, want)
	}
}

func TestOwnsFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"player_1.jpg", true},
		{"player_1.webp", true},
		{"player_10.jpg", false},
		{"player_12.png", false},
		{"player_1.pdf", false},
		{"old_player_1.jpg", false},
	}
	for _, tt := range tests {
		if got := ownsFile("1", tt.name); got != tt.want {
			t.Errorf("ownsFile(1, %q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// fakeDrive answers list, delete and upload calls and records deletions.
type fakeDrive struct {
	mu      sync.Mutex
	files   []map[string]string
	deleted []string
	created []string
}

func (f *fakeDrive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/files"):
		_ = json.NewEncoder(w).Encode(map[string]any{"files": f.files})
	case r.Method == http.MethodDelete:
		f.deleted = append(f.deleted, r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:])
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodPost:
		_, _ = io.Copy(io.Discard, r.Body)
		f.created = append(f.created, r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "new1"})
	default:
		http.Error(w, "unexpected "+r.Method+" "+r.URL.Path, http.StatusNotImplemented)
	}
}

func newFakeClient(t *testing.T, fd *fakeDrive) *Client {
	t.Helper()
	ts := httptest.NewServer(fd)
	t.Cleanup(ts.Close)
	c, err := newClient(context.Background(), "folder",
		option.WithEndpoint(ts.URL+"/drive/v3/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(ts.Client()),
	)
	if err != nil {
		t.Fatalf("newClient: %v", err)
	}
	return c
}

func sharedFolder() []map[string]string {
	return []map[string]string{
		{"id": "f1", "name": "player_1.jpg"},
		{"id": "f10", "name": "player_10.jpg"},
		{"id": "f12", "name": "player_12.png"},
	}
}

func TestUploadDeletesOnlyOwnPhotos(t *testing.T) {
	fd := &fakeDrive{files: sharedFolder()}
	c := newFakeClient(t, fd)

	photo, err := c.Upload(context.Background(), "1", []byte("\x89PNG"), "image/png")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if photo.FileID != "new1" || photo.URL != ThumbnailURL("new1") {
		t.Errorf("photo = %+v", photo)
	}
	if strings.Join(fd.deleted, ",") != "f1" {
		t.Errorf("deleted = %v, want only f1", fd.deleted)
	}
	if len(fd.created) != 1 {
		t.Errorf("created = %v", fd.created)
	}
}

func TestPhotoURLExactName(t *testing.T) {
	fd := &fakeDrive{files: []map[string]string{
		{"id": "f10", "name": "player_10.jpg"},
		{"id": "f1", "name": "player_1.jpg"},
	}}
	c := newFakeClient(t, fd)

	got, err := c.PhotoURL(context.Background(), "1")
	if err != nil {
		t.Fatalf("PhotoURL: %v", err)
	}
	if got != ThumbnailURL("f1") {
		t.Errorf("PhotoURL(1) = %q, want thumbnail of f1", got)
	}

	fd.mu.Lock()
	fd.files = []map[string]string{{"id": "f12", "name": "player_12.png"}}
	fd.mu.Unlock()
	got, err = c.PhotoURL(context.Background(), "1")
	if err != nil || got != "" {
		t.Errorf("PhotoURL(1) with only player_12 = %q, %v", got, err)
	}
}
