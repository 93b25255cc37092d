package user

import (
	"context"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         *string   `json:"name"`
	PasswordHash string    `json:"-"`
}

// Session is what the auth provider tells us about the caller.
type Session struct {
	UserID   uuid.UUID
	IsActive bool
}

// Owns reports whether the session is active and belongs to userID.
func (s Session) Owns(userID uuid.UUID) bool {
	return s.IsActive && s.UserID != uuid.Nil && s.UserID == userID
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
}
