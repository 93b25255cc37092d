package auth

import (
	"context"
	"net/mail"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/domain/user"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/auth"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

const minPasswordLength = 8

type SignUpUseCase struct {
	userRepo user.Repository
	logger   logger.Logger
}

func NewSignUpUseCase(repo user.Repository, log logger.Logger) *SignUpUseCase {
	return &SignUpUseCase{userRepo: repo, logger: log}
}

type SignUpInput struct {
	Email    string
	Password string
	Name     *string
}

type SignUpOutput struct {
	UserID uuid.UUID
}

func (uc *SignUpUseCase) Execute(ctx context.Context, input SignUpInput) (*SignUpOutput, error) {
	ctx, span := tracer.Start(ctx, "SignUp")
	defer span.End()

	email := normalizeEmail(input.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.NewInvalidInput("email is not valid", err)
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperror.NewInvalidInput("password must be at least 8 characters", nil)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         input.Name,
		PasswordHash: hash,
	}
	if err := uc.userRepo.Create(ctx, u); err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.logger.Info("User signed up", zap.String("user_id", u.ID.String()))
	return &SignUpOutput{UserID: u.ID}, nil
}
