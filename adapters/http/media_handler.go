package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	mediaUC "github.com/khoahotran/vlog-studio/internal/application/usecase/media"
	"github.com/khoahotran/vlog-studio/internal/domain/media"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

type MediaHandler struct {
	listCatalogUseCase *mediaUC.ListCatalogUseCase
	uploadMediaUseCase *mediaUC.UploadMediaUseCase
	logger             logger.Logger
}

func NewMediaHandler(listUC *mediaUC.ListCatalogUseCase, uploadUC *mediaUC.UploadMediaUseCase, log logger.Logger) *MediaHandler {
	return &MediaHandler{
		listCatalogUseCase: listUC,
		uploadMediaUseCase: uploadUC,
		logger:             log,
	}
}

// ListCatalog serves GET /media with optional start and end query bounds.
func (h *MediaHandler) ListCatalog(c *gin.Context) {
	h.listCatalog(c, false)
}

func (h *MediaHandler) RefreshCatalog(c *gin.Context) {
	h.listCatalog(c, true)
}

func (h *MediaHandler) listCatalog(c *gin.Context, refresh bool) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	out, err := h.listCatalogUseCase.Execute(c.Request.Context(), mediaUC.ListCatalogInput{
		OwnerID: ownerID,
		Range:   project.DateRange{Start: c.Query("start"), End: c.Query("end")},
		Refresh: refresh,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out.Items, "total": len(out.Items)})
}

// UploadMedia takes a multipart form: file, id, type, timestamp and the
// optional uri and duration fields.
func (h *MediaHandler) UploadMedia(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewInvalidInput("file is required", err))
		return
	}
	ts, err := strconv.ParseInt(c.PostForm("timestamp"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("timestamp must be epoch milliseconds", err))
		return
	}
	item := media.Item{
		ID:        c.PostForm("id"),
		URI:       c.PostForm("uri"),
		Type:      media.Type(c.PostForm("type")),
		Timestamp: ts,
	}
	if raw := c.PostForm("duration"); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.Error(apperror.NewInvalidInput("duration must be a number", err))
			return
		}
		item.Duration = &d
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open uploaded file", err))
		return
	}
	defer file.Close()

	out, err := h.uploadMediaUseCase.Execute(c.Request.Context(), mediaUC.UploadMediaInput{
		OwnerID: ownerID,
		Item:    item,
		File:    file,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, out.Item)
}
