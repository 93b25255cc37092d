package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	settingsUC "github.com/khoahotran/vlog-studio/internal/application/usecase/settings"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
)

type SettingsHandler struct {
	settingsUseCase *settingsUC.SettingsUseCase
}

func NewSettingsHandler(uc *settingsUC.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{settingsUseCase: uc}
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	s, err := h.settingsUseCase.Load(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	s, err := h.settingsUseCase.Save(c.Request.Context(), ownerID, req.ToPatch())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, s)
}
