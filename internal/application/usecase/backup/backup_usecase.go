package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/internal/domain/settings"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

// Snapshot is the document written for one owner.
type Snapshot struct {
	OwnerID  uuid.UUID          `json:"owner_id"`
	TakenAt  time.Time          `json:"taken_at"`
	Projects []*project.Project `json:"projects"`
}

// BackupUseCase uploads a JSON snapshot of an owner's projects when the
// owner has auto backup switched on.
type BackupUseCase struct {
	projectRepo  project.Repository
	settingsRepo settings.Repository
	uploader     service.Uploader
	logger       logger.Logger
	now          func() time.Time
}

func NewBackupUseCase(pr project.Repository, sr settings.Repository, uploader service.Uploader, log logger.Logger) *BackupUseCase {
	return &BackupUseCase{
		projectRepo:  pr,
		settingsRepo: sr,
		uploader:     uploader,
		logger:       log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Execute returns the uploaded snapshot URL, or "" when backup is off.
func (uc *BackupUseCase) Execute(ctx context.Context, ownerID uuid.UUID) (string, error) {
	l := uc.logger.With(zap.String("owner_id", ownerID.String()))

	s, err := uc.settingsRepo.FindByUser(ctx, ownerID)
	if errors.Is(err, apperror.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !s.AutoBackup {
		return "", nil
	}

	projects, err := uc.projectRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if projects == nil {
		projects = []*project.Project{}
	}

	takenAt := uc.now()
	body, err := json.Marshal(Snapshot{OwnerID: ownerID, TakenAt: takenAt, Projects: projects})
	if err != nil {
		return "", apperror.NewInternal("failed to encode backup", err)
	}

	folder := fmt.Sprintf("users/%s/backups", ownerID)
	publicID := fmt.Sprintf("projects-%s", takenAt.Format("2006-01-02_15-04-05"))

	url, err := uc.uploader.Upload(ctx, bytes.NewReader(body), folder, publicID)
	if err != nil {
		l.Error("Failed to upload backup", err)
		return "", err
	}

	l.Info("Project backup uploaded", zap.String("url", url), zap.Int("projects", len(projects)))
	return url, nil
}
