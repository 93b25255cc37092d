package service

import (
	"context"
	"io"

	"github.com/khoahotran/vlog-studio/internal/domain/media"
)

// Uploader is the object-storage sink. Upload returns the public URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error)
	Delete(ctx context.Context, publicID string) error
	ThumbnailURL(publicID string, mediaType media.Type) (string, error)
}
