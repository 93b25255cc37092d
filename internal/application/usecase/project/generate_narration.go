package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/domain/media"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

type GenerateNarrationUseCase struct {
	assembler
	llm service.LLMService
}

func NewGenerateNarrationUseCase(
	llm service.LLMService,
	repo project.Repository,
	sessions service.SessionProvider,
	events service.EventPublisher,
	log logger.Logger,
) *GenerateNarrationUseCase {
	return &GenerateNarrationUseCase{
		assembler: newAssembler(repo, sessions, events, log),
		llm:       llm,
	}
}

type GenerateNarrationInput struct {
	UserID    uuid.UUID
	ProjectID string
	// Style is an optional hint such as "upbeat" or "calm".
	Style string
}

func (uc *GenerateNarrationUseCase) Execute(ctx context.Context, input GenerateNarrationInput) (*project.Project, error) {
	ctx, span := tracer.Start(ctx, "GenerateNarration")
	defer span.End()

	l := uc.logger.With(zap.String("project_id", input.ProjectID))

	if err := requireSession(ctx, uc.sessions, input.UserID); err != nil {
		return nil, err
	}
	current, err := uc.projectRepo.FindByID(ctx, input.ProjectID, input.UserID)
	if err != nil {
		return nil, err
	}
	if len(current.Clips) == 0 {
		return nil, apperror.NewInvalidInput("project has no clips to narrate", project.ErrEmptySelection)
	}

	text, err := uc.llm.GenerateChatResponse(ctx, buildNarrationPrompt(current, input.Style))
	if err != nil {
		l.Error("Failed to generate narration", err)
		return nil, apperror.NewInternal("failed to generate narration", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.NewInternal("narration model returned no text", nil)
	}

	m := project.ProposeEdit(*current, project.Edit{Narration: &text}, uc.now())
	next := m.Proposed
	if err := uc.update(ctx, &next); err != nil {
		return nil, err
	}
	l.Info("Narration generated", zap.Int("length", len(text)))
	return &next, nil
}

func buildNarrationPrompt(p *project.Project, style string) string {
	var videos, photos int
	for _, c := range p.Clips {
		if c.Type == media.TypeVideo {
			videos++
		} else {
			photos++
		}
	}

	var b strings.Builder
	b.WriteString("Write a short first-person voice-over for a personal vlog.\n")
	fmt.Fprintf(&b, "Title: %s\n", p.Name)
	fmt.Fprintf(&b, "Period: %s to %s\n", p.DateRangeStart, p.DateRangeEnd)
	fmt.Fprintf(&b, "It has %d video clips and %d photos, in this order:\n", videos, photos)
	for i, c := range p.Clips {
		fmt.Fprintf(&b, "%d. %s taken %s\n", i+1, c.Type, project.HumanDate(c.Time()))
	}
	if style != "" {
		fmt.Fprintf(&b, "Tone: %s.\n", style)
	}
	b.WriteString("Answer with the narration text only, at most 120 words.")
	return b.String()
}
