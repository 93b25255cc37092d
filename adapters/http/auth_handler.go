package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/vlog-studio/internal/application/usecase/auth"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

type AuthHandler struct {
	loginUseCase  *auth.LoginUseCase
	signUpUseCase *auth.SignUpUseCase
	logger        logger.Logger
}

func NewAuthHandler(loginUC *auth.LoginUseCase, signUpUC *auth.SignUpUseCase, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		loginUseCase:  loginUC,
		signUpUseCase: signUpUC,
		logger:        log,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": output.AccessToken,
	})
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	output, err := h.signUpUseCase.Execute(c.Request.Context(), auth.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user_id": output.UserID})
}
