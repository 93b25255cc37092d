package media

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeVideo Type = "video"
	TypePhoto Type = "photo"
)

// Item is one photo or video clip known to a device. Upload fields stay nil
// until the item has been durably stored; PublicURL never changes afterwards.
type Item struct {
	ID           string     `json:"id"`
	URI          string     `json:"uri"`
	Type         Type       `json:"type"`
	Timestamp    int64      `json:"timestamp"`
	Duration     *float64   `json:"duration,omitempty"`
	ThumbnailURL *string    `json:"thumbnail,omitempty"`
	StoragePath  *string    `json:"storage_path,omitempty"`
	PublicURL    *string    `json:"public_url,omitempty"`
	UploadedAt   *time.Time `json:"uploaded_at,omitempty"`
}

var (
	ErrInvalidType       = errors.New("media type must be video or photo")
	ErrPhotoWithDuration = errors.New("photo cannot carry a duration")
	ErrMissingID         = errors.New("media id is required")
	ErrAlreadyUploaded   = errors.New("media already has a public url")
)

func (i Item) Validate() error {
	if i.ID == "" {
		return ErrMissingID
	}
	switch i.Type {
	case TypeVideo:
	case TypePhoto:
		if i.Duration != nil {
			return ErrPhotoWithDuration
		}
	default:
		return ErrInvalidType
	}
	return nil
}

func (i Item) IsUploaded() bool {
	return i.PublicURL != nil && *i.PublicURL != ""
}

// Time returns the creation instant in UTC.
func (i Item) Time() time.Time {
	return time.UnixMilli(i.Timestamp).UTC()
}

// WithUpload returns a copy carrying the durable upload location. An item
// that is already uploaded is returned unchanged with ErrAlreadyUploaded.
func (i Item) WithUpload(storagePath, publicURL string, at time.Time) (Item, error) {
	if i.IsUploaded() {
		return i, ErrAlreadyUploaded
	}
	i.StoragePath = &storagePath
	i.PublicURL = &publicURL
	i.UploadedAt = &at
	return i, nil
}

// Upload is the durable row written after an item reaches object storage.
type Upload struct {
	Item
	OwnerID uuid.UUID `json:"owner_id"`
}

type Repository interface {
	Save(ctx context.Context, upload *Upload) error
	SetThumbnail(ctx context.Context, ownerID uuid.UUID, storagePath, thumbnailURL string) error
	FindByStoragePath(ctx context.Context, ownerID uuid.UUID, storagePath string) (*Upload, error)
	// LatestByAssetID returns the most recent upload per asset id. Unknown ids are omitted.
	LatestByAssetID(ctx context.Context, ownerID uuid.UUID, assetIDs []string) (map[string]*Upload, error)
	// ListByOwner is ordered by timestamp ascending.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Upload, error)
}
