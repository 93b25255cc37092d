package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/domain/media"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

type postgresProjectRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProjectRepo(db *pgxpool.Pool, logger logger.Logger) project.Repository {
	return &postgresProjectRepo{db: db, logger: logger}
}

var projectColumns = []string{
	"id::text", "user_id", "name", "date_range_start", "date_range_end", "clips",
	"soundtrack", "narration", "thumbnail_url", "created_at", "updated_at",
}

func scanProject(row pgx.Row, l logger.Logger) (*project.Project, error) {
	p := &project.Project{}
	var clipBytes []byte

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.DateRangeStart,
		&p.DateRangeEnd,
		&clipBytes,
		&p.Soundtrack,
		&p.Narration,
		&p.ThumbnailURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("project", "")
		}
		return nil, apperror.NewPersistence("failed to scan project row", err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()

	if err := json.Unmarshal(clipBytes, &p.Clips); err != nil {
		l.Error("Failed to unmarshal project clips", err, zap.String("project_id", p.ID))
		return nil, apperror.NewPersistence("failed to decode project clips", err)
	}
	if p.Clips == nil {
		p.Clips = []media.Item{}
	}
	return p, nil
}

func scanProjects(rows pgx.Rows, l logger.Logger) ([]*project.Project, error) {
	defer rows.Close()
	projects := make([]*project.Project, 0)

	for rows.Next() {
		p, err := scanProject(rows, l)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewPersistence("error iterating project rows", err)
	}
	return projects, nil
}

func marshalClips(clips []media.Item) ([]byte, error) {
	if clips == nil {
		clips = []media.Item{}
	}
	b, err := json.Marshal(clips)
	if err != nil {
		return nil, apperror.NewInternal("failed to marshal project clips", err)
	}
	return b, nil
}

// Create ignores p.ID; the database assigns the durable id.
func (r *postgresProjectRepo) Create(ctx context.Context, p *project.Project) (string, error) {
	clipBytes, err := marshalClips(p.Clips)
	if err != nil {
		return "", err
	}

	query := `
		INSERT INTO projects (user_id, name, date_range_start, date_range_end, clips, soundtrack, narration, thumbnail_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id::text
	`
	var id string
	err = r.db.QueryRow(ctx, query,
		p.UserID, p.Name, p.DateRangeStart, p.DateRangeEnd, clipBytes,
		p.Soundtrack, p.Narration, p.ThumbnailURL, p.CreatedAt, p.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return "", apperror.NewPersistence("failed to insert project", err)
	}
	return id, nil
}

func (r *postgresProjectRepo) Update(ctx context.Context, p *project.Project) error {
	n, err := r.update(ctx, p, nil)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound("project", p.ID)
	}
	return nil
}

func (r *postgresProjectRepo) UpdateIfUnchanged(ctx context.Context, p *project.Project, seen time.Time) error {
	n, err := r.update(ctx, p, sq.Eq{"updated_at": seen})
	if err != nil {
		return err
	}
	if n == 0 {
		return staleProject(p.ID)
	}
	return nil
}

func staleProject(id string) error {
	return apperror.NewAppError(apperror.ErrConflict, "project conflict",
		fmt.Sprintf("project '%s' changed since it was read", id), project.ErrStaleProject)
}

func (r *postgresProjectRepo) update(ctx context.Context, p *project.Project, guard sq.Sqlizer) (int64, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return 0, nil
	}
	clipBytes, err := marshalClips(p.Clips)
	if err != nil {
		return 0, err
	}

	q := psql.Update("projects").
		SetMap(map[string]any{
			"name":             p.Name,
			"date_range_start": p.DateRangeStart,
			"date_range_end":   p.DateRangeEnd,
			"clips":            clipBytes,
			"soundtrack":       p.Soundtrack,
			"narration":        p.Narration,
			"thumbnail_url":    p.ThumbnailURL,
			"updated_at":       p.UpdatedAt,
		}).
		Where(sq.Eq{"id": id, "user_id": p.UserID})
	if guard != nil {
		q = q.Where(guard)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, apperror.NewInternal("failed to build update project query", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, apperror.NewPersistence("failed to update project", err)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *postgresProjectRepo) Delete(ctx context.Context, id string, ownerID uuid.UUID) error {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	query := `DELETE FROM projects WHERE id = $1 AND user_id = $2`
	if _, err := r.db.Exec(ctx, query, pid, ownerID); err != nil {
		return apperror.NewPersistence("failed to delete project", err)
	}
	return nil
}

func (r *postgresProjectRepo) FindByID(ctx context.Context, id string, ownerID uuid.UUID) (*project.Project, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NewNotFound("project", id)
	}

	sql, args, err := psql.Select(projectColumns...).
		From("projects").
		Where(sq.Eq{"id": pid, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build find project query", err)
	}

	p, err := scanProject(r.db.QueryRow(ctx, sql, args...), r.logger)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NewNotFound("project", id)
	}
	return p, err
}

func (r *postgresProjectRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*project.Project, error) {
	sql, args, err := psql.Select(projectColumns...).
		From("projects").
		Where(sq.Eq{"user_id": ownerID}).
		OrderBy("updated_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list projects query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewPersistence("failed to query projects", err)
	}
	return scanProjects(rows, r.logger)
}

func (r *postgresProjectRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects WHERE user_id = $1`, ownerID).Scan(&n)
	if err != nil {
		return 0, apperror.NewPersistence("failed to count projects", err)
	}
	return n, nil
}
