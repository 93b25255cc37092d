package media

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/domain/media"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

// ProcessMediaUseCase runs in the worker after an upload and attaches a
// thumbnail to the stored media row.
type ProcessMediaUseCase struct {
	mediaRepo media.Repository
	uploader  service.Uploader
	logger    logger.Logger
}

func NewProcessMediaUseCase(r media.Repository, u service.Uploader, log logger.Logger) *ProcessMediaUseCase {
	return &ProcessMediaUseCase{mediaRepo: r, uploader: u, logger: log}
}

func (uc *ProcessMediaUseCase) Execute(ctx context.Context, payload service.MediaEventPayload) error {
	l := uc.logger.With(zap.String("asset_id", payload.AssetID), zap.String("event_type", string(payload.EventType)))
	l.Info("Worker UseCase processing media event")

	m, err := uc.mediaRepo.FindByStoragePath(ctx, payload.OwnerID, payload.StoragePath)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			l.Warn("Media not found, skipping event", zap.String("storage_path", payload.StoragePath))
			return nil
		}
		return err
	}
	if m.ThumbnailURL != nil {
		l.Info("Media already has a thumbnail, skipping")
		return nil
	}

	thumb, err := uc.uploader.ThumbnailURL(payload.StoragePath, m.Type)
	if err != nil {
		return apperror.NewInternal("failed to build thumbnail URL", err)
	}

	if err := uc.mediaRepo.SetThumbnail(ctx, payload.OwnerID, payload.StoragePath, thumb); err != nil {
		return err
	}

	l.Info("Successfully processed media")
	return nil
}
