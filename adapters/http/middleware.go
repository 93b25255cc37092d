package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	projectUC "github.com/khoahotran/vlog-studio/internal/application/usecase/project"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/internal/domain/user"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/auth"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

const (
	GinContextKeyOwnerID = "ownerID"
)

// AuthMiddleware validates the bearer token and puts an active session for
// its user on the request context.
func AuthMiddleware(jwtSvc *auth.JWTService, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			log.Debug("Rejected token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(GinContextKeyOwnerID, claims.UserID)
		ctx := service.WithSession(c.Request.Context(), user.Session{UserID: claims.UserID, IsActive: true})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func GetOwnerIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	ownerID, ok := c.Get(GinContextKeyOwnerID)
	if !ok {
		return uuid.Nil, false
	}
	ownerIDUUID, ok := ownerID.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}
	return ownerIDUUID, true
}

// ErrorMiddleware renders the last error a handler attached with c.Error.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := statusOf(err)
		fields := []zap.Field{zap.String("method", c.Request.Method), zap.String("path", c.FullPath()), zap.Int("status", status)}
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err, fields...)
		} else {
			log.Warn("Request rejected", append(fields, zap.Error(err))...)
		}

		body := gin.H{"error": "internal server error"}
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			body = appErr.ToJSON()
			if status < http.StatusInternalServerError {
				body["details"] = appErr.Details
			}
		}
		var commitErr *projectUC.CommitError
		if errors.As(err, &commitErr) {
			body["rollback"] = ToProjectDTO(commitErr.Mutation.Rollback())
		}
		c.JSON(status, body)
	}
}

func statusOf(err error) int {
	if errors.Is(err, project.ErrEmptySelection) {
		return http.StatusUnprocessableEntity
	}
	return apperror.ToHTTPStatus(err)
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
