package project

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

type DeleteProjectUseCase struct {
	assembler
}

func NewDeleteProjectUseCase(repo project.Repository, sessions service.SessionProvider, events service.EventPublisher, log logger.Logger) *DeleteProjectUseCase {
	return &DeleteProjectUseCase{assembler: newAssembler(repo, sessions, events, log)}
}

type DeleteProjectInput struct {
	UserID    uuid.UUID
	ProjectID string
}

// Execute removes the project. Deleting an id that is already gone succeeds.
func (uc *DeleteProjectUseCase) Execute(ctx context.Context, input DeleteProjectInput) error {
	ctx, span := tracer.Start(ctx, "DeleteProject")
	defer span.End()

	if err := requireSession(ctx, uc.sessions, input.UserID); err != nil {
		return err
	}
	if project.IsTempID(input.ProjectID) {
		return nil
	}

	if err := uc.projectRepo.Delete(ctx, input.ProjectID, input.UserID); err != nil {
		uc.logger.Error("Failed to delete project", err, zap.String("project_id", input.ProjectID))
		return err
	}

	publishProjectEvent(ctx, uc.events, uc.logger, service.ProjectEventDeleted,
		&project.Project{ID: input.ProjectID, UserID: input.UserID}, uc.now())
	return nil
}
