package persistence

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/vlog-studio/internal/domain/media"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

type postgresMediaRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresMediaRepo(db *pgxpool.Pool, logger logger.Logger) media.Repository {
	return &postgresMediaRepo{db: db, logger: logger}
}

var mediaColumns = []string{
	"owner_id", "asset_id", "uri", "media_type", "taken_at_ms", "duration",
	"thumbnail_url", "storage_path", "public_url", "uploaded_at",
}

func scanMedia(row pgx.Row) (*media.Upload, error) {
	m := &media.Upload{}
	var storagePath, publicURL string
	var uploadedAt time.Time

	err := row.Scan(
		&m.OwnerID, &m.ID, &m.URI, &m.Type, &m.Timestamp, &m.Duration,
		&m.ThumbnailURL, &storagePath, &publicURL, &uploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("media", "")
		}
		return nil, apperror.NewPersistence("failed to scan media row", err)
	}

	at := uploadedAt.UTC()
	m.StoragePath = &storagePath
	m.PublicURL = &publicURL
	m.UploadedAt = &at
	return m, nil
}

func scanMedias(rows pgx.Rows) ([]*media.Upload, error) {
	defer rows.Close()
	medias := make([]*media.Upload, 0)
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		medias = append(medias, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewPersistence("error iterating media rows", err)
	}
	return medias, nil
}

func (r *postgresMediaRepo) Save(ctx context.Context, m *media.Upload) error {
	if !m.IsUploaded() || m.StoragePath == nil || m.UploadedAt == nil {
		return apperror.NewInvalidInput("media row needs storage path, public url and upload time", nil)
	}

	query := `
		INSERT INTO media (owner_id, asset_id, uri, media_type, taken_at_ms, duration, thumbnail_url, storage_path, public_url, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		m.OwnerID, m.ID, m.URI, m.Type, m.Timestamp, m.Duration,
		m.ThumbnailURL, *m.StoragePath, *m.PublicURL, *m.UploadedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("media", "storage_path", *m.StoragePath)
		}
		return apperror.NewPersistence("failed to insert media", err)
	}
	return nil
}

func (r *postgresMediaRepo) SetThumbnail(ctx context.Context, ownerID uuid.UUID, storagePath, thumbnailURL string) error {
	query := `UPDATE media SET thumbnail_url = $3 WHERE owner_id = $1 AND storage_path = $2`
	cmdTag, err := r.db.Exec(ctx, query, ownerID, storagePath, thumbnailURL)
	if err != nil {
		return apperror.NewPersistence("failed to update media thumbnail", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("media", storagePath)
	}
	return nil
}

func (r *postgresMediaRepo) FindByStoragePath(ctx context.Context, ownerID uuid.UUID, storagePath string) (*media.Upload, error) {
	sql, args, err := psql.Select(mediaColumns...).
		From("media").
		Where(sq.Eq{"owner_id": ownerID, "storage_path": storagePath}).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build find media query", err)
	}

	m, err := scanMedia(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NewNotFound("media", storagePath)
	}
	return m, err
}

func (r *postgresMediaRepo) LatestByAssetID(ctx context.Context, ownerID uuid.UUID, assetIDs []string) (map[string]*media.Upload, error) {
	out := make(map[string]*media.Upload, len(assetIDs))
	if len(assetIDs) == 0 {
		return out, nil
	}

	sql, args, err := psql.Select(mediaColumns...).
		Options("DISTINCT ON (asset_id)").
		From("media").
		Where(sq.Eq{"owner_id": ownerID, "asset_id": assetIDs}).
		OrderBy("asset_id", "uploaded_at DESC").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build latest media query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewPersistence("failed to query latest media", err)
	}
	medias, err := scanMedias(rows)
	if err != nil {
		return nil, err
	}
	for _, m := range medias {
		out[m.ID] = m
	}
	return out, nil
}

func (r *postgresMediaRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*media.Upload, error) {
	sql, args, err := psql.Select(mediaColumns...).
		From("media").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("taken_at_ms ASC", "uploaded_at ASC").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list media by owner query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewPersistence("failed to query media by owner", err)
	}
	return scanMedias(rows)
}
