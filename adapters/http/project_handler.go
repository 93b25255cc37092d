package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	projectUC "github.com/khoahotran/vlog-studio/internal/application/usecase/project"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

// ProjectUseCases groups what the project routes need.
type ProjectUseCases struct {
	FromRange     *projectUC.AssembleFromRangeUseCase
	FromSelection *projectUC.AssembleFromSelectionUseCase
	Save          *projectUC.SaveProjectUseCase
	Update        *projectUC.UpdateProjectUseCase
	RemoveClip    *projectUC.RemoveClipUseCase
	Delete        *projectUC.DeleteProjectUseCase
	List          *projectUC.ListProjectsUseCase
	Get           *projectUC.GetProjectUseCase
	Narration     *projectUC.GenerateNarrationUseCase
	Export        *projectUC.ExportProjectUseCase
}

type ProjectHandler struct {
	uc     ProjectUseCases
	logger logger.Logger
}

func NewProjectHandler(uc ProjectUseCases, log logger.Logger) *ProjectHandler {
	return &ProjectHandler{uc: uc, logger: log}
}

func (h *ProjectHandler) AssembleFromRange(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	var req AssembleFromRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("both start and end dates are required", project.ErrMissingRange))
		return
	}

	out, err := h.uc.FromRange.Execute(c.Request.Context(), projectUC.AssembleFromRangeInput{
		UserID: ownerID,
		Range:  project.DateRange{Start: req.Start, End: req.End},
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToProjectDTO(*out.Project))
}

func (h *ProjectHandler) AssembleFromSelection(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	var req AssembleFromSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	out, err := h.uc.FromSelection.Execute(c.Request.Context(), projectUC.AssembleFromSelectionInput{
		UserID: ownerID,
		Items:  req.Items,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToProjectDTO(*out.Project))
}

func (h *ProjectHandler) SaveProject(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	var req SaveProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	out, err := h.uc.Save.Execute(c.Request.Context(), projectUC.SaveProjectInput{
		UserID:  ownerID,
		Project: req.ToDomain(),
	})
	if err != nil {
		c.Error(err)
		return
	}
	status := http.StatusOK
	if out.Created {
		status = http.StatusCreated
	}
	c.JSON(status, ToProjectDTO(*out.Project))
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	out, err := h.uc.List.Execute(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	dtos := make([]ProjectDTO, len(out.Projects))
	for i, p := range out.Projects {
		dtos[i] = ToProjectDTO(*p)
	}
	c.JSON(http.StatusOK, gin.H{"data": dtos, "total": out.Total})
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	p, err := h.uc.Get.Execute(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProjectDTO(*p))
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	p, err := h.uc.Update.Execute(c.Request.Context(), projectUC.UpdateProjectInput{
		UserID:    ownerID,
		ProjectID: c.Param("id"),
		Edit:      req.ToEdit(),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProjectDTO(*p))
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	err := h.uc.Delete.Execute(c.Request.Context(), projectUC.DeleteProjectInput{
		UserID:    ownerID,
		ProjectID: c.Param("id"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProjectHandler) RemoveClip(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("clip index must be a number", project.ErrIndexOutOfRange))
		return
	}

	current, err := h.uc.Get.Execute(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	out, err := h.uc.RemoveClip.Execute(c.Request.Context(), projectUC.RemoveClipInput{
		UserID:  ownerID,
		Project: *current,
		Index:   index,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProjectDTO(*out.Project))
}

func (h *ProjectHandler) GenerateNarration(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	var req GenerateNarrationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(apperror.NewInvalidInput("invalid request data", err))
			return
		}
	}

	p, err := h.uc.Narration.Execute(c.Request.Context(), projectUC.GenerateNarrationInput{
		UserID:    ownerID,
		ProjectID: c.Param("id"),
		Style:     req.Style,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProjectDTO(*p))
}

func (h *ProjectHandler) ExportProject(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	out, err := h.uc.Export.Execute(c.Request.Context(), projectUC.ExportProjectInput{
		UserID:    ownerID,
		ProjectID: c.Param("id"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}
