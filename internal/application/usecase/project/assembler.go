package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/domain/media"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

var tracer = otel.Tracer("project_usecase")

// MediaCatalog is the part of the catalog the assembler reads.
type MediaCatalog interface {
	FilterByRange(ctx context.Context, ownerID uuid.UUID, r project.DateRange) ([]media.Item, error)
}

type AssembleOutput struct {
	Project *project.Project
}

// assembler holds what both assembly use cases share: session checks, draft
// construction and the temporary to durable id hand-over.
type assembler struct {
	projectRepo project.Repository
	sessions    service.SessionProvider
	events      service.EventPublisher
	logger      logger.Logger
	now         func() time.Time
}

func newAssembler(repo project.Repository, sessions service.SessionProvider, events service.EventPublisher, log logger.Logger) assembler {
	return assembler{
		projectRepo: repo,
		sessions:    sessions,
		events:      events,
		logger:      log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func requireSession(ctx context.Context, sessions service.SessionProvider, userID uuid.UUID) error {
	if !sessions.Session(ctx).Owns(userID) {
		return apperror.NewUnauthorized("an active session for the user is required", project.ErrNoSession)
	}
	return nil
}

func (a *assembler) draft(userID uuid.UUID, name string, r project.DateRange, clips []media.Item) *project.Project {
	now := a.now()
	p := &project.Project{
		ID:             project.NewTempID(),
		Name:           name,
		DateRangeStart: r.Start,
		DateRangeEnd:   r.End,
		Clips:          clips,
		CreatedAt:      now,
		UpdatedAt:      now,
		UserID:         userID,
	}
	for _, c := range clips {
		if c.ThumbnailURL != nil {
			p.ThumbnailURL = c.ThumbnailURL
			break
		}
	}
	return p
}

// create persists a draft and swaps in the durable id. On failure the store
// error is returned untouched and the draft keeps its temporary id.
func (a *assembler) create(ctx context.Context, p *project.Project) error {
	ctx, span := tracer.Start(ctx, "create")
	defer span.End()

	if err := p.Validate(); err != nil {
		return apperror.NewInvalidInput("project is not valid", err)
	}

	id, err := a.projectRepo.Create(ctx, p)
	if err != nil {
		span.RecordError(err)
		a.logger.Error("Failed to create project", err, zap.String("temp_id", p.ID), zap.String("user_id", p.UserID.String()))
		return err
	}
	if err := p.Finalize(id); err != nil {
		span.RecordError(err)
		return apperror.NewInternal("store returned an unusable project id", err)
	}

	span.SetAttributes(attribute.String("project_id", p.ID), attribute.Int("clips", len(p.Clips)))
	publishProjectEvent(ctx, a.events, a.logger, service.ProjectEventCreated, p, a.now())
	return nil
}

func publishProjectEvent(ctx context.Context, events service.EventPublisher, l logger.Logger, t service.ProjectEventType, p *project.Project, at time.Time) {
	if events == nil {
		return
	}
	payload := service.ProjectEventPayload{
		EventType:  t,
		ProjectID:  p.ID,
		OwnerID:    p.UserID,
		OccurredAt: at,
	}
	if err := events.PublishProjectEvent(ctx, payload); err != nil {
		l.Error("Failed to publish project event", err, zap.String("project_id", p.ID), zap.String("event_type", string(t)))
	}
}
