// Package catalog keeps the media items known for each owner's devices and
// answers range queries over them.
package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/domain/media"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

// Source produces the media items for one owner, in creation-time order.
type Source interface {
	Scan(ctx context.Context, ownerID uuid.UUID) ([]media.Item, error)
}

// Catalog caches one snapshot per owner. Scanners may replace or invalidate
// a snapshot at any time; readers always get a private copy.
type Catalog struct {
	source Source
	logger logger.Logger

	mu    sync.RWMutex
	items map[uuid.UUID][]media.Item
}

func New(source Source, log logger.Logger) *Catalog {
	return &Catalog{
		source: source,
		logger: log,
		items:  make(map[uuid.UUID][]media.Item),
	}
}

// ListAll returns every item known for owner, scanning the source on first use.
func (c *Catalog) ListAll(ctx context.Context, ownerID uuid.UUID) ([]media.Item, error) {
	c.mu.RLock()
	items, ok := c.items[ownerID]
	c.mu.RUnlock()
	if ok {
		return slices.Clone(items), nil
	}
	return c.Refresh(ctx, ownerID)
}

// Refresh rescans the source and replaces the owner's snapshot.
func (c *Catalog) Refresh(ctx context.Context, ownerID uuid.UUID) ([]media.Item, error) {
	items, err := c.source.Scan(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("scan media for %s: %w", ownerID, err)
	}
	c.Replace(ownerID, items)
	c.logger.Debug("Catalog refreshed", zap.String("owner_id", ownerID.String()), zap.Int("items", len(items)))
	return slices.Clone(items), nil
}

func (c *Catalog) Replace(ownerID uuid.UUID, items []media.Item) {
	c.mu.Lock()
	c.items[ownerID] = slices.Clone(items)
	c.mu.Unlock()
}

// Invalidate drops the owner's snapshot; the next read rescans.
func (c *Catalog) Invalidate(ownerID uuid.UUID) {
	c.mu.Lock()
	delete(c.items, ownerID)
	c.mu.Unlock()
}

func (c *Catalog) InvalidateAll() {
	c.mu.Lock()
	c.items = make(map[uuid.UUID][]media.Item)
	c.mu.Unlock()
}

// FilterByRange returns the items of ListAll with start <= timestamp <= end.
// Bounds that do not parse fail with project.ErrInvalidRange.
func (c *Catalog) FilterByRange(ctx context.Context, ownerID uuid.UUID, r project.DateRange) ([]media.Item, error) {
	start, end, err := r.Bounds()
	if err != nil {
		return nil, err
	}
	items, err := c.ListAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return Filter(items, start, end), nil
}

// Filter keeps the input order.
func Filter(items []media.Item, start, end time.Time) []media.Item {
	out := make([]media.Item, 0, len(items))
	for _, item := range items {
		if project.Contains(start, end, item.Timestamp) {
			out = append(out, item)
		}
	}
	return out
}
