package media

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/domain/media"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
)

type Catalog interface {
	ListAll(ctx context.Context, ownerID uuid.UUID) ([]media.Item, error)
	Refresh(ctx context.Context, ownerID uuid.UUID) ([]media.Item, error)
	FilterByRange(ctx context.Context, ownerID uuid.UUID, r project.DateRange) ([]media.Item, error)
}

type ListCatalogUseCase struct {
	catalog  Catalog
	sessions service.SessionProvider
}

func NewListCatalogUseCase(c Catalog, sessions service.SessionProvider) *ListCatalogUseCase {
	return &ListCatalogUseCase{catalog: c, sessions: sessions}
}

type ListCatalogInput struct {
	OwnerID uuid.UUID
	// Range is optional; when either bound is set both are required.
	Range   project.DateRange
	Refresh bool
}

type ListCatalogOutput struct {
	Items []media.Item `json:"items"`
}

func (uc *ListCatalogUseCase) Execute(ctx context.Context, input ListCatalogInput) (*ListCatalogOutput, error) {
	if !uc.sessions.Session(ctx).Owns(input.OwnerID) {
		return nil, apperror.NewUnauthorized("an active session for the user is required", project.ErrNoSession)
	}

	var (
		items []media.Item
		err   error
	)
	switch {
	case input.Range.Start != "" || input.Range.End != "":
		if input.Refresh {
			if _, err := uc.catalog.Refresh(ctx, input.OwnerID); err != nil {
				return nil, apperror.NewInternal("failed to refresh media catalog", err)
			}
		}
		items, err = uc.catalog.FilterByRange(ctx, input.OwnerID, input.Range)
	case input.Refresh:
		items, err = uc.catalog.Refresh(ctx, input.OwnerID)
	default:
		items, err = uc.catalog.ListAll(ctx, input.OwnerID)
	}
	if err != nil {
		if errors.Is(err, project.ErrMissingRange) || errors.Is(err, project.ErrInvalidRange) {
			return nil, apperror.NewInvalidInput("date range is not valid", err)
		}
		return nil, apperror.NewInternal("failed to read media catalog", err)
	}
	if items == nil {
		items = []media.Item{}
	}
	return &ListCatalogOutput{Items: items}, nil
}
