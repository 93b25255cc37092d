package settings

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type UserSettings struct {
	UserID               uuid.UUID `json:"user_id"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	AutoBackup           bool      `json:"auto_backup"`
	DailyReminderTime    string    `json:"daily_reminder_time"`
	Theme                Theme     `json:"theme"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

var (
	ErrInvalidReminderTime = errors.New("daily reminder time must be HH:MM")
	ErrInvalidTheme        = errors.New("theme must be light or dark")
	ErrSettingsNotFound    = errors.New("settings not found")
	reminderRegex          = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

func Defaults(userID uuid.UUID, now time.Time) *UserSettings {
	return &UserSettings{
		UserID:               userID,
		NotificationsEnabled: true,
		AutoBackup:           false,
		DailyReminderTime:    "20:00",
		Theme:                ThemeLight,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func (s *UserSettings) Validate() error {
	if !reminderRegex.MatchString(s.DailyReminderTime) {
		return ErrInvalidReminderTime
	}
	if s.Theme != ThemeLight && s.Theme != ThemeDark {
		return ErrInvalidTheme
	}
	return nil
}

// Patch is a partial update; nil fields keep their stored value.
type Patch struct {
	NotificationsEnabled *bool
	AutoBackup           *bool
	DailyReminderTime    *string
	Theme                *Theme
}

func (s UserSettings) Apply(p Patch, now time.Time) UserSettings {
	if p.NotificationsEnabled != nil {
		s.NotificationsEnabled = *p.NotificationsEnabled
	}
	if p.AutoBackup != nil {
		s.AutoBackup = *p.AutoBackup
	}
	if p.DailyReminderTime != nil {
		s.DailyReminderTime = *p.DailyReminderTime
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	s.UpdatedAt = now
	return s
}

type Repository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*UserSettings, error)
	// Create inserts defaults; an existing row is left alone.
	Create(ctx context.Context, s *UserSettings) error
	Update(ctx context.Context, s *UserSettings) error
}
