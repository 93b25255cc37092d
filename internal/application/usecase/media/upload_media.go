package media

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/domain/media"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

// CatalogInvalidator drops an owner's cached catalog.
type CatalogInvalidator interface {
	Invalidate(ownerID uuid.UUID)
}

type UploadMediaUseCase struct {
	mediaRepo media.Repository
	uploader  service.Uploader
	events    service.EventPublisher
	catalog   CatalogInvalidator
	sessions  service.SessionProvider
	logger    logger.Logger
	now       func() time.Time
}

func NewUploadMediaUseCase(
	r media.Repository,
	u service.Uploader,
	events service.EventPublisher,
	catalog CatalogInvalidator,
	sessions service.SessionProvider,
	log logger.Logger,
) *UploadMediaUseCase {
	return &UploadMediaUseCase{
		mediaRepo: r,
		uploader:  u,
		events:    events,
		catalog:   catalog,
		sessions:  sessions,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type UploadMediaInput struct {
	OwnerID uuid.UUID
	Item    media.Item
	File    io.Reader
}

type UploadMediaOutput struct {
	Item media.Item
}

func (uc *UploadMediaUseCase) Execute(ctx context.Context, input UploadMediaInput) (*UploadMediaOutput, error) {
	if !uc.sessions.Session(ctx).Owns(input.OwnerID) {
		return nil, apperror.NewUnauthorized("an active session for the user is required", project.ErrNoSession)
	}
	if err := input.Item.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("media item is not valid", err)
	}
	if input.Item.IsUploaded() {
		return nil, apperror.NewInvalidInput("media item is already uploaded", media.ErrAlreadyUploaded)
	}
	if input.File == nil {
		return nil, apperror.NewInvalidInput("file is required", nil)
	}

	now := uc.now()
	folder := fmt.Sprintf("users/%s/media", input.OwnerID)
	publicID := fmt.Sprintf("%s-%d", input.Item.ID, now.UnixMilli())
	storagePath := folder + "/" + publicID

	publicURL, err := uc.uploader.Upload(ctx, input.File, folder, publicID)
	if err != nil {
		return nil, apperror.NewInternal("failed to upload media file", err)
	}

	item, err := input.Item.WithUpload(storagePath, publicURL, now)
	if err != nil {
		return nil, apperror.NewInvalidInput("media item is already uploaded", err)
	}

	if err := uc.mediaRepo.Save(ctx, &media.Upload{Item: item, OwnerID: input.OwnerID}); err != nil {
		go func() {
			if err := uc.uploader.Delete(context.Background(), storagePath); err != nil {
				uc.logger.Warn("Failed to delete orphaned upload", zap.String("storage_path", storagePath), zap.Error(err))
			}
		}()
		return nil, err
	}

	if uc.catalog != nil {
		uc.catalog.Invalidate(input.OwnerID)
	}

	if uc.events != nil {
		payload := service.MediaEventPayload{
			EventType:   service.MediaEventUploaded,
			AssetID:     item.ID,
			OwnerID:     input.OwnerID,
			MediaType:   string(item.Type),
			StoragePath: storagePath,
			PublicURL:   publicURL,
			OccurredAt:  now,
		}
		if err := uc.events.PublishMediaEvent(ctx, payload); err != nil {
			uc.logger.Error("Failed to publish 'media.uploaded' event", err, zap.String("asset_id", item.ID))
		}
	}

	return &UploadMediaOutput{Item: item}, nil
}
