package project

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
)

type GetProjectUseCase struct {
	projectRepo project.Repository
	sessions    service.SessionProvider
}

func NewGetProjectUseCase(repo project.Repository, sessions service.SessionProvider) *GetProjectUseCase {
	return &GetProjectUseCase{projectRepo: repo, sessions: sessions}
}

func (uc *GetProjectUseCase) Execute(ctx context.Context, userID uuid.UUID, projectID string) (*project.Project, error) {
	if err := requireSession(ctx, uc.sessions, userID); err != nil {
		return nil, err
	}
	if project.IsTempID(projectID) {
		return nil, apperror.NewNotFound("project", projectID)
	}
	return uc.projectRepo.FindByID(ctx, projectID, userID)
}
