package project

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

type UpdateProjectUseCase struct {
	assembler
}

func NewUpdateProjectUseCase(repo project.Repository, sessions service.SessionProvider, events service.EventPublisher, log logger.Logger) *UpdateProjectUseCase {
	return &UpdateProjectUseCase{assembler: newAssembler(repo, sessions, events, log)}
}

type UpdateProjectInput struct {
	UserID    uuid.UUID
	ProjectID string
	Edit      project.Edit
}

func (uc *UpdateProjectUseCase) Execute(ctx context.Context, input UpdateProjectInput) (*project.Project, error) {
	ctx, span := tracer.Start(ctx, "UpdateProject")
	defer span.End()

	if err := requireSession(ctx, uc.sessions, input.UserID); err != nil {
		return nil, err
	}
	if input.Edit.IsEmpty() {
		return nil, apperror.NewInvalidInput("nothing to update", nil)
	}
	if input.Edit.Name != nil && *input.Edit.Name == "" {
		return nil, apperror.NewInvalidInput("name must not be empty", nil)
	}

	current, err := uc.projectRepo.FindByID(ctx, input.ProjectID, input.UserID)
	if err != nil {
		return nil, err
	}

	m := project.ProposeEdit(*current, input.Edit, uc.now())
	next := m.Proposed
	if err := uc.update(ctx, &next); err != nil {
		return nil, &CommitError{Mutation: m, Err: err}
	}
	return &next, nil
}
