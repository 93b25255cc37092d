package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/khoahotran/vlog-studio/internal/domain/user"
)

func TestContextSessionProvider(t *testing.T) {
	var p ContextSessionProvider

	empty := p.Session(context.Background())
	assert.False(t, empty.IsActive)

	id := uuid.New()
	ctx := WithSession(context.Background(), user.Session{UserID: id, IsActive: true})
	s := p.Session(ctx)
	assert.True(t, s.Owns(id))
	assert.False(t, s.Owns(uuid.New()))
}
