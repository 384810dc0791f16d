package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"ekiden-club/internal/cache"
)

var ErrNotFound = errors.New("not found")

type Client struct {
	srv           *sheetsv4.Service
	spreadsheetID string
	cache         *cache.TTL

	mu       sync.Mutex
	sheetIDs map[string]int64
}

// New connects to the spreadsheet. An empty credentials path falls back to
// Application Default Credentials.
func New(ctx context.Context, serviceAccountJSONPath, spreadsheetID string, c *cache.TTL) (*Client, error) {
	opts := []option.ClientOption{option.WithScopes(sheetsv4.SpreadsheetsScope)}
	if serviceAccountJSONPath != "" {
		if _, err := os.Stat(serviceAccountJSONPath); err != nil {
			return nil, fmt.Errorf("service account json: %w", err)
		}
		opts = append(opts, option.WithCredentialsFile(serviceAccountJSONPath))
	}
	return newClient(ctx, spreadsheetID, c, opts...)
}

func newClient(ctx context.Context, spreadsheetID string, c *cache.TTL, opts ...option.ClientOption) (*Client, error) {
	srv, err := sheetsv4.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		cache:         c,
		sheetIDs:      map[string]int64{},
	}, nil
}

func (c *Client) SpreadsheetID() string { return c.spreadsheetID }

// FlushCache drops every cached worksheet read.
func (c *Client) FlushCache() { c.cache.Flush() }

// sheetID resolves the numeric id of a worksheet, needed for row deletes.
func (c *Client) sheetID(ctx context.Context, sheet string) (int64, error) {
	c.mu.Lock()
	id, ok := c.sheetIDs[sheet]
	c.mu.Unlock()
	if ok {
		return id, nil
	}

	ss, err := c.srv.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			c.sheetIDs[s.Properties.Title] = s.Properties.SheetId
		}
	}
	id, ok = c.sheetIDs[sheet]
	if !ok {
		return 0, fmt.Errorf("worksheet %s: %w", sheet, ErrNotFound)
	}
	return id, nil
}
