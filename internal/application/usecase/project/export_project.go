package project

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/domain/media"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

// ExportProjectUseCase renders the clips in order into one video and uploads
// it. The project itself is left unchanged.
type ExportProjectUseCase struct {
	assembler
	stitcher service.Stitcher
	uploader service.Uploader
	sources  clipSources
}

// NewExportProjectUseCase renders uploaded clips from their recorded public
// URL and local clips only from files under mediaRoot/<owner id>/.
func NewExportProjectUseCase(
	stitcher service.Stitcher,
	uploader service.Uploader,
	mediaRepo media.Repository,
	mediaRoot string,
	repo project.Repository,
	sessions service.SessionProvider,
	events service.EventPublisher,
	log logger.Logger,
) *ExportProjectUseCase {
	return &ExportProjectUseCase{
		assembler: newAssembler(repo, sessions, events, log),
		stitcher:  stitcher,
		uploader:  uploader,
		sources:   clipSources{mediaRepo: mediaRepo, root: mediaRoot},
	}
}

type ExportProjectInput struct {
	UserID    uuid.UUID
	ProjectID string
}

type ExportProjectOutput struct {
	ProjectID string `json:"project_id"`
	URL       string `json:"url"`
}

func (uc *ExportProjectUseCase) Execute(ctx context.Context, input ExportProjectInput) (*ExportProjectOutput, error) {
	ctx, span := tracer.Start(ctx, "ExportProject")
	defer span.End()

	l := uc.logger.With(zap.String("project_id", input.ProjectID))

	if err := requireSession(ctx, uc.sessions, input.UserID); err != nil {
		return nil, err
	}
	p, err := uc.projectRepo.FindByID(ctx, input.ProjectID, input.UserID)
	if err != nil {
		return nil, err
	}
	if len(p.Clips) == 0 {
		return nil, apperror.NewInvalidInput("project has no clips to export", project.ErrEmptySelection)
	}

	clips, err := uc.sources.resolve(ctx, input.UserID, p.Clips)
	if err != nil {
		l.Warn("Refusing to export project", zap.Error(err))
		return nil, err
	}

	out, err := uc.stitcher.Stitch(ctx, clips)
	if err != nil {
		l.Error("Failed to stitch clips", err)
		return nil, apperror.NewInternal("failed to render project", err)
	}
	defer func() {
		if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
			l.Warn("Failed to remove rendered file", zap.String("path", out), zap.Error(err))
		}
	}()

	f, err := os.Open(out)
	if err != nil {
		return nil, apperror.NewInternal("failed to open rendered file", err)
	}
	defer f.Close()

	now := uc.now()
	folder := fmt.Sprintf("users/%s/exports", input.UserID)
	publicID := fmt.Sprintf("%s-%d", p.ID, now.UnixMilli())
	url, err := uc.uploader.Upload(ctx, f, folder, publicID)
	if err != nil {
		l.Error("Failed to upload export", err)
		return nil, apperror.NewInternal("failed to upload rendered project", err)
	}

	if uc.events != nil {
		payload := service.ProjectEventPayload{
			EventType:  service.ProjectEventExported,
			ProjectID:  p.ID,
			OwnerID:    p.UserID,
			ExportURL:  url,
			OccurredAt: now,
		}
		if err := uc.events.PublishProjectEvent(ctx, payload); err != nil {
			l.Error("Failed to publish export event", err)
		}
	}

	l.Info("Project exported", zap.String("url", url))
	return &ExportProjectOutput{ProjectID: p.ID, URL: url}, nil
}
