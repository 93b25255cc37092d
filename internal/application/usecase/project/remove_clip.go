package project

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

// CommitError is returned when a locally applied change could not be saved.
// Mutation.Rollback gives back the project as it was before the change.
type CommitError struct {
	Mutation project.Mutation
	Err      error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit %s: %v", e.Mutation.Kind, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

type RemoveClipUseCase struct {
	assembler
}

func NewRemoveClipUseCase(repo project.Repository, sessions service.SessionProvider, events service.EventPublisher, log logger.Logger) *RemoveClipUseCase {
	return &RemoveClipUseCase{assembler: newAssembler(repo, sessions, events, log)}
}

type RemoveClipInput struct {
	UserID  uuid.UUID
	Project project.Project
	Index   int
}

type RemoveClipOutput struct {
	Project  *project.Project
	Mutation project.Mutation
}

func (uc *RemoveClipUseCase) Execute(ctx context.Context, input RemoveClipInput) (*RemoveClipOutput, error) {
	ctx, span := tracer.Start(ctx, "RemoveClip")
	defer span.End()

	if err := requireSession(ctx, uc.sessions, input.UserID); err != nil {
		return nil, err
	}
	if input.Project.UserID != input.UserID {
		return nil, apperror.NewPermissionDenied("cannot edit a project owned by another user")
	}

	m, err := project.ProposeClipRemoval(input.Project, input.Index, uc.now())
	if err != nil {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("clip index %d", input.Index), err)
	}

	committed := m.Proposed.Clone()
	if _, err := uc.save(ctx, &committed); err != nil {
		uc.logger.Warn("Clip removal not saved", zap.String("project_id", input.Project.ID), zap.Int("index", input.Index), zap.Error(err))
		return nil, &CommitError{Mutation: m, Err: err}
	}
	return &RemoveClipOutput{Project: &committed, Mutation: m}, nil
}
