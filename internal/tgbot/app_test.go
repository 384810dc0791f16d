package tgbot

import (
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ekiden-club/internal/config"
)

func TestFromAdmin(t *testing.T) {
	a := &App{cfg: config.Config{AdminTGIDs: map[int64]bool{42: true}}}

	tests := []struct {
		name string
		msg  *tgbotapi.Message
		want bool
	}{
		{"admin", &tgbotapi.Message{From: &tgbotapi.User{ID: 42}}, true},
		{"member", &tgbotapi.Message{From: &tgbotapi.User{ID: 7}}, false},
		{"channel post", &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: -100}}, false},
	}
	for _, tt := range tests {
		if got := a.fromAdmin(tt.msg); got != tt.want {
			t.Errorf("%s: fromAdmin = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestExportURL(t *testing.T) {
	a := &App{cfg: config.Config{HTTPAddr: ":8080", ExportSecret: "secret"}}
	want := "http://localhost:8080/export/records.csv?token="
	if got := a.exportURL(""); !strings.HasPrefix(got, want) {
		t.Errorf("exportURL = %q, want prefix %q", got, want)
	}

	a.cfg.BasePublicURL = "https://club.example.com"
	want = "https://club.example.com/export/records.csv?player=3&token="
	if got := a.exportURL("3"); !strings.HasPrefix(got, want) {
		t.Errorf("exportURL(3) = %q, want prefix %q", got, want)
	}
}
