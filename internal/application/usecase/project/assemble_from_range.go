package project

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

type AssembleFromRangeUseCase struct {
	assembler
	catalog MediaCatalog
}

func NewAssembleFromRangeUseCase(
	catalog MediaCatalog,
	repo project.Repository,
	sessions service.SessionProvider,
	events service.EventPublisher,
	log logger.Logger,
) *AssembleFromRangeUseCase {
	return &AssembleFromRangeUseCase{
		assembler: newAssembler(repo, sessions, events, log),
		catalog:   catalog,
	}
}

type AssembleFromRangeInput struct {
	UserID uuid.UUID
	Range  project.DateRange
}

func (uc *AssembleFromRangeUseCase) Execute(ctx context.Context, input AssembleFromRangeInput) (*AssembleOutput, error) {
	ctx, span := tracer.Start(ctx, "AssembleFromRange", trace.WithAttributes(
		attribute.String("range.start", input.Range.Start),
		attribute.String("range.end", input.Range.End),
	))
	defer span.End()

	if input.Range.Start == "" || input.Range.End == "" {
		return nil, apperror.NewInvalidInput("both start and end dates are required", project.ErrMissingRange)
	}
	if err := requireSession(ctx, uc.sessions, input.UserID); err != nil {
		return nil, err
	}

	start, _, err := input.Range.Bounds()
	if err != nil {
		return nil, apperror.NewInvalidInput("date range is not valid", err)
	}

	clips, err := uc.catalog.FilterByRange(ctx, input.UserID, input.Range)
	if err != nil {
		if errors.Is(err, project.ErrInvalidRange) || errors.Is(err, project.ErrMissingRange) {
			return nil, apperror.NewInvalidInput("date range is not valid", err)
		}
		return nil, apperror.NewInternal("failed to read media catalog", err)
	}
	if len(clips) == 0 {
		uc.logger.Info("No media in range", zap.String("user_id", input.UserID.String()),
			zap.String("start", input.Range.Start), zap.String("end", input.Range.End))
		return nil, apperror.NewInvalidInput("no media found in this date range", project.ErrEmptySelection)
	}

	p := uc.draft(input.UserID, "Vlog "+project.HumanDate(start), input.Range, clips)
	if err := uc.create(ctx, p); err != nil {
		return nil, err
	}

	uc.logger.Info("Assembled project from range", zap.String("project_id", p.ID), zap.Int("clips", len(p.Clips)))
	return &AssembleOutput{Project: p}, nil
}
