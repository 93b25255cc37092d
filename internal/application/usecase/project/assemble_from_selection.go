package project

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/domain/media"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

// RangePolicy derives the declared range of a hand-picked selection.
type RangePolicy func(items []media.Item) (project.DateRange, error)

type AssembleFromSelectionUseCase struct {
	assembler
	rangeOf RangePolicy
}

func NewAssembleFromSelectionUseCase(
	repo project.Repository,
	sessions service.SessionProvider,
	events service.EventPublisher,
	log logger.Logger,
) *AssembleFromSelectionUseCase {
	return &AssembleFromSelectionUseCase{
		assembler: newAssembler(repo, sessions, events, log),
		rangeOf:   project.SelectionOrderRange,
	}
}

type AssembleFromSelectionInput struct {
	UserID uuid.UUID
	Items  []media.Item
}

func (uc *AssembleFromSelectionUseCase) Execute(ctx context.Context, input AssembleFromSelectionInput) (*AssembleOutput, error) {
	ctx, span := tracer.Start(ctx, "AssembleFromSelection", trace.WithAttributes(
		attribute.Int("selection.size", len(input.Items)),
	))
	defer span.End()

	if len(input.Items) == 0 {
		return nil, apperror.NewInvalidInput("select at least one clip", project.ErrEmptySelection)
	}
	if err := requireSession(ctx, uc.sessions, input.UserID); err != nil {
		return nil, err
	}
	for i, item := range input.Items {
		if err := item.Validate(); err != nil {
			return nil, apperror.NewInvalidInput(fmt.Sprintf("clip %d is not valid", i), err)
		}
	}

	r, err := uc.rangeOf(input.Items)
	if err != nil {
		return nil, apperror.NewInvalidInput("cannot derive date range", err)
	}

	count, err := uc.projectRepo.CountByOwner(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	clips := make([]media.Item, len(input.Items))
	copy(clips, input.Items)

	p := uc.draft(input.UserID, fmt.Sprintf("Project %d", count+1), r, clips)
	if err := uc.create(ctx, p); err != nil {
		return nil, err
	}

	uc.logger.Info("Assembled project from selection", zap.String("project_id", p.ID), zap.Int("clips", len(p.Clips)))
	return &AssembleOutput{Project: p}, nil
}
