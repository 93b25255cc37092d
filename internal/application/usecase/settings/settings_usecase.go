package settings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/internal/domain/settings"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

type SettingsUseCase struct {
	repo     settings.Repository
	sessions service.SessionProvider
	logger   logger.Logger
	now      func() time.Time
}

func NewSettingsUseCase(repo settings.Repository, sessions service.SessionProvider, log logger.Logger) *SettingsUseCase {
	return &SettingsUseCase{
		repo:     repo,
		sessions: sessions,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Load returns the stored settings, writing the defaults on first access.
func (uc *SettingsUseCase) Load(ctx context.Context, userID uuid.UUID) (*settings.UserSettings, error) {
	if !uc.sessions.Session(ctx).Owns(userID) {
		return nil, apperror.NewUnauthorized("an active session for the user is required", project.ErrNoSession)
	}
	return uc.load(ctx, userID)
}

func (uc *SettingsUseCase) load(ctx context.Context, userID uuid.UUID) (*settings.UserSettings, error) {
	s, err := uc.repo.FindByUser(ctx, userID)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	s = settings.Defaults(userID, uc.now())
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.logger.Info("Created default settings", zap.String("user_id", userID.String()))
	return uc.repo.FindByUser(ctx, userID)
}

func (uc *SettingsUseCase) Save(ctx context.Context, userID uuid.UUID, patch settings.Patch) (*settings.UserSettings, error) {
	if !uc.sessions.Session(ctx).Owns(userID) {
		return nil, apperror.NewUnauthorized("an active session for the user is required", project.ErrNoSession)
	}

	current, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := current.Apply(patch, uc.now())
	if err := next.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("settings are not valid", err)
	}
	if err := uc.repo.Update(ctx, &next); err != nil {
		uc.logger.Error("Failed to save settings", err, zap.String("user_id", userID.String()))
		return nil, err
	}
	return &next, nil
}
