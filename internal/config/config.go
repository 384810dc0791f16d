package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	SpreadsheetID            string
	GoogleServiceAccountJSON string // empty: Application Default Credentials
	DrivePhotoFolderID       string

	HTTPAddr      string
	BasePublicURL string
	ExportSecret  string

	CacheTTL        time.Duration
	LegacyMarkers   []string
	SectionTieBreak string // lexical or duration

	TelegramToken string
	AdminTGIDs    map[int64]bool
}

func FromEnv() (Config, error) {
	var c Config
	c.SpreadsheetID = strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"))
	c.GoogleServiceAccountJSON = strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	c.DrivePhotoFolderID = strings.TrimSpace(os.Getenv("DRIVE_PHOTO_FOLDER_ID"))

	c.HTTPAddr = strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if c.HTTPAddr == "" {
		// Cloud Run passes PORT
		if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
			c.HTTPAddr = ":" + port
		} else {
			c.HTTPAddr = ":8080"
		}
	}

	c.BasePublicURL = strings.TrimRight(strings.TrimSpace(os.Getenv("BASE_PUBLIC_URL")), "/")

	c.ExportSecret = strings.TrimSpace(os.Getenv("EXPORT_SECRET"))
	if c.ExportSecret == "" {
		c.ExportSecret = "change-me"
	}

	c.CacheTTL = 60 * time.Second
	if raw := strings.TrimSpace(os.Getenv("CACHE_TTL")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return c, fmt.Errorf("CACHE_TTL: %w", err)
		}
		c.CacheTTL = d
	}

	c.LegacyMarkers = splitList(os.Getenv("LEGACY_RACE_MARKERS"))
	if len(c.LegacyMarkers) == 0 {
		c.LegacyMarkers = []string{"縦断駅伝"}
	}

	c.SectionTieBreak = strings.ToLower(strings.TrimSpace(os.Getenv("SECTION_TIEBREAK")))
	switch c.SectionTieBreak {
	case "":
		c.SectionTieBreak = "lexical"
	case "lexical", "duration":
	default:
		return c, fmt.Errorf("SECTION_TIEBREAK must be lexical or duration, got %q", c.SectionTieBreak)
	}

	c.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	c.AdminTGIDs = parseAdminIDs(os.Getenv("ADMIN_TG_IDS"))

	if c.SpreadsheetID == "" {
		return c, fmt.Errorf("GOOGLE_SHEETS_SPREADSHEET_ID is empty")
	}

	return c, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseAdminIDs(raw string) map[int64]bool {
	m := map[int64]bool{}
	for _, p := range splitList(raw) {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		m[v] = true
	}
	return m
}
