package http

import (
	"time"

	"github.com/khoahotran/vlog-studio/internal/domain/media"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/internal/domain/settings"
)

// Project DTOs
type ProjectDTO struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	DateRangeStart string       `json:"date_range_start"`
	DateRangeEnd   string       `json:"date_range_end"`
	Clips          []media.Item `json:"clips"`
	Soundtrack     *string      `json:"soundtrack,omitempty"`
	Narration      *string      `json:"narration,omitempty"`
	ThumbnailURL   *string      `json:"thumbnail_url,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func ToProjectDTO(p project.Project) ProjectDTO {
	clips := p.Clips
	if clips == nil {
		clips = []media.Item{}
	}
	return ProjectDTO{
		ID:             p.ID,
		Name:           p.Name,
		DateRangeStart: p.DateRangeStart,
		DateRangeEnd:   p.DateRangeEnd,
		Clips:          clips,
		Soundtrack:     p.Soundtrack,
		Narration:      p.Narration,
		ThumbnailURL:   p.ThumbnailURL,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

type AssembleFromRangeRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type AssembleFromSelectionRequest struct {
	Items []media.Item `json:"items" binding:"required"`
}

type SaveProjectRequest struct {
	ID             string       `json:"id"`
	Name           string       `json:"name" binding:"required"`
	DateRangeStart string       `json:"date_range_start"`
	DateRangeEnd   string       `json:"date_range_end"`
	Clips          []media.Item `json:"clips"`
	Soundtrack     *string      `json:"soundtrack"`
	Narration      *string      `json:"narration"`
	ThumbnailURL   *string      `json:"thumbnail_url"`
	UpdatedAt      *time.Time   `json:"updated_at"`
}

func (r SaveProjectRequest) ToDomain() project.Project {
	p := project.Project{
		ID:             r.ID,
		Name:           r.Name,
		DateRangeStart: r.DateRangeStart,
		DateRangeEnd:   r.DateRangeEnd,
		Clips:          r.Clips,
		Soundtrack:     r.Soundtrack,
		Narration:      r.Narration,
		ThumbnailURL:   r.ThumbnailURL,
	}
	if p.ID == "" {
		p.ID = project.NewTempID()
	}
	if r.UpdatedAt != nil {
		p.UpdatedAt = *r.UpdatedAt
	}
	return p
}

type UpdateProjectRequest struct {
	Name         *string `json:"name"`
	Soundtrack   *string `json:"soundtrack"`
	Narration    *string `json:"narration"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

func (r UpdateProjectRequest) ToEdit() project.Edit {
	return project.Edit{
		Name:         r.Name,
		Soundtrack:   r.Soundtrack,
		Narration:    r.Narration,
		ThumbnailURL: r.ThumbnailURL,
	}
}

type GenerateNarrationRequest struct {
	Style string `json:"style"`
}

// Settings DTOs
type UpdateSettingsRequest struct {
	NotificationsEnabled *bool           `json:"notifications_enabled"`
	AutoBackup           *bool           `json:"auto_backup"`
	DailyReminderTime    *string         `json:"daily_reminder_time"`
	Theme                *settings.Theme `json:"theme"`
}

func (r UpdateSettingsRequest) ToPatch() settings.Patch {
	return settings.Patch{
		NotificationsEnabled: r.NotificationsEnabled,
		AutoBackup:           r.AutoBackup,
		DailyReminderTime:    r.DailyReminderTime,
		Theme:                r.Theme,
	}
}

// Auth DTOs
type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signUpRequest struct {
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Name     *string `json:"name"`
}
