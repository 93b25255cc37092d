package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/vlog-studio/internal/domain/media"
)

// DBSource exposes the uploaded media rows as catalog items.
type DBSource struct {
	repo media.Repository
}

func NewDBSource(repo media.Repository) *DBSource {
	return &DBSource{repo: repo}
}

func (s *DBSource) Scan(ctx context.Context, ownerID uuid.UUID) ([]media.Item, error) {
	uploads, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	items := make([]media.Item, len(uploads))
	for i, u := range uploads {
		items[i] = u.Item
	}
	return items, nil
}
