package project

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
)

type ListProjectsUseCase struct {
	projectRepo project.Repository
	sessions    service.SessionProvider
}

func NewListProjectsUseCase(repo project.Repository, sessions service.SessionProvider) *ListProjectsUseCase {
	return &ListProjectsUseCase{projectRepo: repo, sessions: sessions}
}

type ListProjectsOutput struct {
	Projects []*project.Project
	Total    int
}

// Execute returns the user's projects, most recently updated first.
func (uc *ListProjectsUseCase) Execute(ctx context.Context, userID uuid.UUID) (*ListProjectsOutput, error) {
	if err := requireSession(ctx, uc.sessions, userID); err != nil {
		return nil, err
	}
	projects, err := uc.projectRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []*project.Project{}
	}
	return &ListProjectsOutput{Projects: projects, Total: len(projects)}, nil
}
