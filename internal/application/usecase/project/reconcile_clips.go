package project

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/domain/media"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

// ReconcileClipsUseCase copies upload details recorded after a project was
// assembled onto the project's clips. It runs from the worker, outside any
// user session.
type ReconcileClipsUseCase struct {
	projectRepo project.Repository
	mediaRepo   media.Repository
	logger      logger.Logger
	now         func() time.Time
}

func NewReconcileClipsUseCase(pr project.Repository, mr media.Repository, log logger.Logger) *ReconcileClipsUseCase {
	return &ReconcileClipsUseCase{projectRepo: pr, mediaRepo: mr, logger: log, now: time.Now}
}

type ReconcileClipsInput struct {
	ProjectID string
	OwnerID   uuid.UUID
}

// Execute reports whether the project was changed. A project edited while
// the uploads were being looked up is left alone; the user's version wins.
func (uc *ReconcileClipsUseCase) Execute(ctx context.Context, input ReconcileClipsInput) (bool, error) {
	l := uc.logger.With(zap.String("project_id", input.ProjectID))

	p, err := uc.projectRepo.FindByID(ctx, input.ProjectID, input.OwnerID)
	if err != nil {
		return false, err
	}

	ids := make([]string, 0, len(p.Clips))
	for _, c := range p.Clips {
		if !c.IsUploaded() || c.ThumbnailURL == nil {
			ids = append(ids, c.ID)
		}
	}
	if len(ids) == 0 {
		return false, nil
	}

	uploads, err := uc.mediaRepo.LatestByAssetID(ctx, input.OwnerID, ids)
	if err != nil {
		return false, err
	}

	changed := false
	for i, c := range p.Clips {
		up, ok := uploads[c.ID]
		if !ok {
			continue
		}
		if !c.IsUploaded() && up.IsUploaded() {
			c.StoragePath = up.StoragePath
			c.PublicURL = up.PublicURL
			c.UploadedAt = up.UploadedAt
			changed = true
		}
		if c.ThumbnailURL == nil && up.ThumbnailURL != nil {
			c.ThumbnailURL = up.ThumbnailURL
			changed = true
		}
		p.Clips[i] = c
	}
	local := 0
	for _, c := range p.Clips {
		if !c.IsUploaded() {
			local++
		}
	}
	if !changed {
		if local > 0 {
			l.Debug("Clips not uploaded yet", zap.Int("still_local", local))
		}
		return false, nil
	}

	if p.ThumbnailURL == nil && p.Clips[0].ThumbnailURL != nil {
		p.ThumbnailURL = p.Clips[0].ThumbnailURL
	}
	seen := p.UpdatedAt
	p.Touch(uc.now())
	if err := uc.projectRepo.UpdateIfUnchanged(ctx, p, seen); err != nil {
		if errors.Is(err, project.ErrStaleProject) {
			l.Info("Project changed during reconcile, skipping")
			return false, nil
		}
		l.Error("Failed to save reconciled clips", err)
		return false, err
	}
	l.Info("Reconciled clips", zap.Int("candidates", len(ids)), zap.Int("still_local", local))
	return true, nil
}
