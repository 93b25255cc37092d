package project

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

// SaveProjectUseCase writes a project back to the store. A project still
// carrying a temporary id is created, anything else is updated in place.
type SaveProjectUseCase struct {
	assembler
}

func NewSaveProjectUseCase(repo project.Repository, sessions service.SessionProvider, events service.EventPublisher, log logger.Logger) *SaveProjectUseCase {
	return &SaveProjectUseCase{assembler: newAssembler(repo, sessions, events, log)}
}

type SaveProjectInput struct {
	UserID  uuid.UUID
	Project project.Project
}

type SaveProjectOutput struct {
	Project *project.Project
	Created bool
}

func (uc *SaveProjectUseCase) Execute(ctx context.Context, input SaveProjectInput) (*SaveProjectOutput, error) {
	ctx, span := tracer.Start(ctx, "SaveProject")
	defer span.End()

	if err := requireSession(ctx, uc.sessions, input.UserID); err != nil {
		return nil, err
	}
	p := input.Project.Clone()
	if p.UserID == uuid.Nil {
		p.UserID = input.UserID
	}
	if p.UserID != input.UserID {
		return nil, apperror.NewPermissionDenied("cannot save a project owned by another user")
	}

	if p.IsDurable() && p.CreatedAt.IsZero() {
		current, err := uc.projectRepo.FindByID(ctx, p.ID, input.UserID)
		if err != nil {
			return nil, err
		}
		p.CreatedAt = current.CreatedAt
	}

	p.Touch(uc.now())
	created, err := uc.save(ctx, &p)
	if err != nil {
		return nil, err
	}
	return &SaveProjectOutput{Project: &p, Created: created}, nil
}

// save commits an already touched p. The first durable save stamps CreatedAt.
func (a *assembler) save(ctx context.Context, p *project.Project) (bool, error) {
	if !p.IsDurable() {
		p.CreatedAt = p.UpdatedAt
		if err := a.create(ctx, p); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := a.update(ctx, p); err != nil {
		return false, err
	}
	return false, nil
}

// update stores p as is; callers bump UpdatedAt when they build the change.
func (a *assembler) update(ctx context.Context, p *project.Project) error {
	if err := p.Validate(); err != nil {
		return apperror.NewInvalidInput("project is not valid", err)
	}
	if err := a.projectRepo.Update(ctx, p); err != nil {
		a.logger.Error("Failed to update project", err, zap.String("project_id", p.ID))
		return err
	}
	publishProjectEvent(ctx, a.events, a.logger, service.ProjectEventUpdated, p, a.now())
	return nil
}
