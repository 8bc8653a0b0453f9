package photo

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldbook/internal/modules/project"
	"fieldbook/internal/pkg/response"
)

type Handler struct {
	service *Service
	access  ProjectAccess
}

func NewHandler(service *Service, access ProjectAccess) *Handler {
	return &Handler{service: service, access: access}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/projects/:id/photos", h.ListPhotos)
	rg.POST("/projects/:id/photos", h.UploadPhoto)
	rg.DELETE("/photos/:id", h.DeletePhoto)
}

func (h *Handler) ListPhotos(c *gin.Context) {
	if !h.checkProject(c, false) {
		return
	}
	photos, err := h.service.ListByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list photos")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"photos": photos})
}

func (h *Handler) UploadPhoto(c *gin.Context) {
	if !h.checkProject(c, true) {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "No photo file in request")
		return
	}
	caption := c.PostForm("caption")

	p, err := h.service.Upload(c.Request.Context(), c.Param("id"), c.GetString("user_id"), caption, fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyFile):
			response.Error(c, http.StatusBadRequest, "EMPTY_FILE", "Uploaded file is empty")
		case errors.Is(err, ErrFileTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Photo exceeds the size limit")
		case errors.Is(err, ErrInvalidMimeType):
			response.Error(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only image files are accepted")
		default:
			response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to store photo")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"photo": p})
}

func (h *Handler) DeletePhoto(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Photo not found")
		case errors.Is(err, ErrNotOwner):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only the uploader can delete a photo")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete photo")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) checkProject(c *gin.Context, write bool) bool {
	err := h.access.VerifyAccess(c.Request.Context(), c.Param("id"), c.GetString("user_id"), write)
	switch {
	case err == nil:
		return true
	case errors.Is(err, project.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Project not found")
	case errors.Is(err, project.ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to access this project")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check project access")
	}
	return false
}
