package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/vlog-studio/internal/domain/settings"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

type postgresSettingsRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresSettingsRepo(db *pgxpool.Pool, logger logger.Logger) settings.Repository {
	return &postgresSettingsRepo{db: db, logger: logger}
}

func (r *postgresSettingsRepo) FindByUser(ctx context.Context, userID uuid.UUID) (*settings.UserSettings, error) {
	query := `
		SELECT user_id, notifications_enabled, auto_backup, daily_reminder_time, theme, created_at, updated_at
		FROM user_settings
		WHERE user_id = $1
	`
	s := &settings.UserSettings{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.NotificationsEnabled, &s.AutoBackup, &s.DailyReminderTime,
		&s.Theme, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("settings", userID.String())
		}
		return nil, apperror.NewPersistence("failed to query settings", err)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

func (r *postgresSettingsRepo) Create(ctx context.Context, s *settings.UserSettings) error {
	query := `
		INSERT INTO user_settings (user_id, notifications_enabled, auto_backup, daily_reminder_time, theme, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query,
		s.UserID, s.NotificationsEnabled, s.AutoBackup, s.DailyReminderTime, s.Theme, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return apperror.NewPersistence("failed to insert settings", err)
	}
	return nil
}

func (r *postgresSettingsRepo) Update(ctx context.Context, s *settings.UserSettings) error {
	query := `
		UPDATE user_settings SET
			notifications_enabled = $2, auto_backup = $3, daily_reminder_time = $4, theme = $5, updated_at = $6
		WHERE user_id = $1
	`
	cmdTag, err := r.db.Exec(ctx, query,
		s.UserID, s.NotificationsEnabled, s.AutoBackup, s.DailyReminderTime, s.Theme, s.UpdatedAt,
	)
	if err != nil {
		return apperror.NewPersistence("failed to update settings", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("settings", s.UserID.String())
	}
	return nil
}
