package service

import (
	"context"

	"github.com/khoahotran/vlog-studio/internal/domain/user"
)

// SessionProvider reports the caller's session. A missing session is
// returned as an inactive zero Session, not an error.
type SessionProvider interface {
	Session(ctx context.Context) user.Session
}

type sessionKey struct{}

// WithSession stores s on ctx for ContextSessionProvider.
func WithSession(ctx context.Context, s user.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// ContextSessionProvider reads the session placed on the request context by
// the auth middleware.
type ContextSessionProvider struct{}

func (ContextSessionProvider) Session(ctx context.Context) user.Session {
	s, _ := ctx.Value(sessionKey{}).(user.Session)
	return s
}
