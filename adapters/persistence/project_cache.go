package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

// cachedProjectRepo keeps each owner's project list in Redis. Every write
// through it drops that owner's entry. Redis failures fall through to the
// wrapped repository.
type cachedProjectRepo struct {
	project.Repository
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedProjectRepo(next project.Repository, rdb redis.UniversalClient, ttl time.Duration, log logger.Logger) project.Repository {
	return &cachedProjectRepo{Repository: next, rdb: rdb, ttl: ttl, logger: log}
}

func projectListKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("projects:list:%s", ownerID)
}

func (r *cachedProjectRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*project.Project, error) {
	key := projectListKey(ownerID)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached []*project.Project
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		r.logger.Warn("Dropping unreadable project list cache", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("Project list cache read failed", zap.String("key", key), zap.Error(err))
	}

	projects, err := r.Repository.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(projects); err == nil {
		if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
			r.logger.Warn("Project list cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return projects, nil
}

func (r *cachedProjectRepo) Create(ctx context.Context, p *project.Project) (string, error) {
	id, err := r.Repository.Create(ctx, p)
	if err == nil {
		r.invalidate(ctx, p.UserID)
	}
	return id, err
}

func (r *cachedProjectRepo) Update(ctx context.Context, p *project.Project) error {
	err := r.Repository.Update(ctx, p)
	if err == nil {
		r.invalidate(ctx, p.UserID)
	}
	return err
}

func (r *cachedProjectRepo) UpdateIfUnchanged(ctx context.Context, p *project.Project, seen time.Time) error {
	err := r.Repository.UpdateIfUnchanged(ctx, p, seen)
	if err == nil {
		r.invalidate(ctx, p.UserID)
	}
	return err
}

func (r *cachedProjectRepo) Delete(ctx context.Context, id string, ownerID uuid.UUID) error {
	err := r.Repository.Delete(ctx, id, ownerID)
	if err == nil {
		r.invalidate(ctx, ownerID)
	}
	return err
}

func (r *cachedProjectRepo) invalidate(ctx context.Context, ownerID uuid.UUID) {
	if err := r.rdb.Del(ctx, projectListKey(ownerID)).Err(); err != nil {
		r.logger.Warn("Project list cache invalidation failed", zap.String("owner_id", ownerID.String()), zap.Error(err))
	}
}
