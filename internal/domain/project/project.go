package project

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/vlog-studio/internal/domain/media"
)

const TempIDPrefix = "temp-"

type Project struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	DateRangeStart string       `json:"date_range_start"`
	DateRangeEnd   string       `json:"date_range_end"`
	Clips          []media.Item `json:"clips"`
	Soundtrack     *string      `json:"soundtrack,omitempty"`
	Narration      *string      `json:"narration,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	UserID         uuid.UUID    `json:"user_id"`
	ThumbnailURL   *string      `json:"thumbnail_url,omitempty"`
}

var (
	ErrMissingRange     = errors.New("both range bounds are required")
	ErrInvalidRange     = errors.New("range bound is not a valid instant")
	ErrEmptySelection   = errors.New("no media in selection")
	ErrIndexOutOfRange  = errors.New("clip index out of range")
	ErrNoSession        = errors.New("no active session")
	ErrMissingOwner     = errors.New("project has no owner")
	ErrProjectNotFound  = errors.New("project not found")
	ErrAlreadyDurable   = errors.New("project already has a durable id")
	ErrInvalidDurableID = errors.New("durable id must not be temporary")
	ErrStaleProject     = errors.New("project changed since it was read")
)

func NewTempID() string {
	return TempIDPrefix + uuid.NewString()
}

func IsTempID(id string) bool {
	return id == "" || strings.HasPrefix(id, TempIDPrefix)
}

// IsDurable reports whether the store has assigned this project's id.
func (p *Project) IsDurable() bool {
	return !IsTempID(p.ID)
}

func (p *Project) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrMissingOwner
	}
	return nil
}

// Finalize swaps the temporary id for the store-assigned one. It can only
// happen once.
func (p *Project) Finalize(durableID string) error {
	if p.IsDurable() {
		return ErrAlreadyDurable
	}
	if IsTempID(durableID) {
		return ErrInvalidDurableID
	}
	p.ID = durableID
	return nil
}

// Clone copies the project deeply enough that edits to the clip slice do not
// leak back into the original.
func (p Project) Clone() Project {
	clips := make([]media.Item, len(p.Clips))
	copy(clips, p.Clips)
	p.Clips = clips
	return p
}

// Touch moves UpdatedAt to now, or one millisecond past the previous value
// when the clock has not advanced.
func (p *Project) Touch(now time.Time) {
	if !now.After(p.UpdatedAt) {
		now = p.UpdatedAt.Add(time.Millisecond)
	}
	p.UpdatedAt = now
}

// WithoutClip returns a copy with the clip at index removed. The receiver is
// left untouched.
func (p Project) WithoutClip(index int, now time.Time) (Project, error) {
	if index < 0 || index >= len(p.Clips) {
		return p, ErrIndexOutOfRange
	}
	next := p.Clone()
	next.Clips = append(next.Clips[:index], next.Clips[index+1:]...)
	next.Touch(now)
	return next, nil
}

type Repository interface {
	// Create stores a new project and returns the durable id the store assigned.
	Create(ctx context.Context, project *Project) (string, error)
	Update(ctx context.Context, project *Project) error
	// UpdateIfUnchanged writes project only while the stored UpdatedAt still
	// equals seen, and fails with ErrStaleProject otherwise.
	UpdateIfUnchanged(ctx context.Context, project *Project, seen time.Time) error
	// Delete is idempotent: removing a missing id is not an error.
	Delete(ctx context.Context, id string, ownerID uuid.UUID) error
	FindByID(ctx context.Context, id string, ownerID uuid.UUID) (*Project, error)
	// ListByOwner is ordered by UpdatedAt, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Project, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
}
