package media_storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/config"
	"github.com/khoahotran/vlog-studio/internal/domain/media"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

const (
	photoThumbnail = "c_fill,g_auto,w_400,h_400"
	videoThumbnail = "so_0,c_fill,w_400,h_400"
)

type cloudinaryAdapter struct {
	cld *cloudinary.Cloudinary
	log logger.Logger
}

func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.Uploader, error) {
	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}

	log.Info("Connect Cloudinary successfully.")
	return &cloudinaryAdapter{cld: cld, log: log}, nil
}

// Upload accepts photos and videos alike; Cloudinary picks the resource type.
func (a *cloudinaryAdapter) Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error) {
	uploadParams := uploader.UploadParams{
		PublicID:     publicID,
		Folder:       folder,
		ResourceType: "auto",
	}
	result, err := a.cld.Upload.Upload(ctx, file, uploadParams)
	if err != nil {
		return "", fmt.Errorf("failed to upload cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}

// Delete removes publicID whether it was stored as an image or a video.
func (a *cloudinaryAdapter) Delete(ctx context.Context, publicID string) error {
	for _, resourceType := range []string{"image", "video"} {
		result, err := a.cld.Upload.Destroy(ctx, uploader.DestroyParams{
			PublicID:     publicID,
			ResourceType: resourceType,
		})
		if err != nil {
			return fmt.Errorf("failed to delete cloudinary: %w", err)
		}
		if result.Result == "ok" {
			return nil
		}
	}
	return nil
}

func (a *cloudinaryAdapter) ThumbnailURL(publicID string, mediaType media.Type) (string, error) {
	if mediaType == media.TypeVideo {
		asset, err := a.cld.Video(publicID + ".jpg")
		if err != nil {
			return "", fmt.Errorf("failed to create cloudinary video asset: %w", err)
		}
		asset.Transformation = videoThumbnail
		return asset.String()
	}

	asset, err := a.cld.Image(publicID)
	if err != nil {
		return "", fmt.Errorf("failed to create cloudinary image asset: %w", err)
	}
	asset.Transformation = photoThumbnail
	return asset.String()
}
