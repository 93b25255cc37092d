package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/vlog-studio/pkg/auth"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

type Handlers struct {
	Auth     *AuthHandler
	Media    *MediaHandler
	Project  *ProjectHandler
	Settings *SettingsHandler
}

func NewRouter(h Handlers, jwtSvc *auth.JWTService, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log), ErrorMiddleware(log))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		api.POST("/auth/signup", h.Auth.SignUp)
		api.POST("/auth/login", h.Auth.Login)

		private := api.Group("/")
		private.Use(AuthMiddleware(jwtSvc, log))
		{
			private.GET("/media", h.Media.ListCatalog)
			private.POST("/media/refresh", h.Media.RefreshCatalog)
			private.POST("/media/upload", h.Media.UploadMedia)

			projects := private.Group("/projects")
			{
				projects.GET("", h.Project.ListProjects)
				projects.POST("", h.Project.SaveProject)
				projects.POST("/from-range", h.Project.AssembleFromRange)
				projects.POST("/from-selection", h.Project.AssembleFromSelection)
				projects.GET("/:id", h.Project.GetProject)
				projects.PATCH("/:id", h.Project.UpdateProject)
				projects.DELETE("/:id", h.Project.DeleteProject)
				projects.DELETE("/:id/clips/:index", h.Project.RemoveClip)
				projects.POST("/:id/narration", h.Project.GenerateNarration)
				projects.POST("/:id/export", h.Project.ExportProject)
			}

			private.GET("/settings", h.Settings.GetSettings)
			private.PUT("/settings", h.Settings.UpdateSettings)
		}
	}
	return router
}
