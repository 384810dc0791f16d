package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// MaxPhotoSize is the upload limit for player photos.
const MaxPhotoSize = 5 * 1024 * 1024

var (
	ErrUnsupportedType = errors.New("unsupported file type: jpeg, png, gif or webp only")
	ErrTooLarge        = errors.New("file too large: 5MB max")
)

var extByMime = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Photo struct {
	FileID string
	URL    string
}

type Client struct {
	srv      *drivev3.Service
	folderID string
}

// New connects to Drive; an empty credentials path uses Application Default
// Credentials.
func New(ctx context.Context, serviceAccountJSONPath, folderID string) (*Client, error) {
	opts := []option.ClientOption{option.WithScopes(drivev3.DriveFileScope)}
	if serviceAccountJSONPath != "" {
		if _, err := os.Stat(serviceAccountJSONPath); err != nil {
			return nil, fmt.Errorf("service account json: %w", err)
		}
		opts = append(opts, option.WithCredentialsFile(serviceAccountJSONPath))
	}
	return newClient(ctx, folderID, opts...)
}

func newClient(ctx context.Context, folderID string, opts ...option.ClientOption) (*Client, error) {
	srv, err := drivev3.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{srv: srv, folderID: folderID}, nil
}

// Validate checks the mime type and size before anything is sent to Drive.
func Validate(data []byte, mimeType string) error {
	if _, ok := extByMime[mimeType]; !ok {
		return ErrUnsupportedType
	}
	if len(data) > MaxPhotoSize {
		return ErrTooLarge
	}
	return nil
}

// FileName is the Drive name used for a player's photo.
func FileName(playerID, mimeType string) string {
	ext, ok := extByMime[mimeType]
	if !ok {
		ext = ".jpg"
	}
	return "player_" + playerID + ext
}

// ThumbnailURL is the directly embeddable image URL for a Drive file.
func ThumbnailURL(fileID string) string {
	return "https://drive.google.com/thumbnail?id=" + fileID + "&sz=w200"
}

// Upload replaces the player's photo: existing player_<id> files in the folder
// are deleted first.
func (c *Client) Upload(ctx context.Context, playerID string, data []byte, mimeType string) (Photo, error) {
	if err := Validate(data, mimeType); err != nil {
		return Photo{}, err
	}
	if err := c.RemovePhotos(ctx, playerID); err != nil {
		return Photo{}, err
	}

	meta := &drivev3.File{
		Name:    FileName(playerID, mimeType),
		Parents: []string{c.folderID},
	}
	f, err := c.srv.Files.Create(meta).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Fields("id, webContentLink, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return Photo{}, fmt.Errorf("upload photo: %w", err)
	}
	return Photo{FileID: f.Id, URL: ThumbnailURL(f.Id)}, nil
}

func (c *Client) Delete(ctx context.Context, fileID string) error {
	if err := c.srv.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete photo %s: %w", fileID, err)
	}
	return nil
}

// RemovePhotos deletes every photo file belonging to the player.
func (c *Client) RemovePhotos(ctx context.Context, playerID string) error {
	existing, err := c.find(ctx, playerID)
	if err != nil {
		return err
	}
	for _, f := range existing {
		if err := c.Delete(ctx, f.Id); err != nil {
			return err
		}
	}
	return nil
}

// PhotoURL returns the player's thumbnail URL, or "" when there is none.
func (c *Client) PhotoURL(ctx context.Context, playerID string) (string, error) {
	files, err := c.find(ctx, playerID)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", nil
	}
	return ThumbnailURL(files[0].Id), nil
}

func (c *Client) find(ctx context.Context, playerID string) ([]*drivev3.File, error) {
	res, err := c.srv.Files.List().
		Q(searchQuery(playerID, c.folderID)).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	// the query is a substring match, so player_1 also lists player_10
	var out []*drivev3.File
	for _, f := range res.Files {
		if ownsFile(playerID, f.Name) {
			out = append(out, f)
		}
	}
	return out, nil
}

// ownsFile reports whether name is exactly player_<id> with a photo extension.
func ownsFile(playerID, name string) bool {
	for _, ext := range extByMime {
		if name == "player_"+playerID+ext {
			return true
		}
	}
	return false
}

func searchQuery(playerID, folderID string) string {
	return fmt.Sprintf("name contains 'player_%s' and '%s' in parents and trashed=false", playerID, folderID)
}
