package diary

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldbook/internal/modules/project"
	"fieldbook/internal/pkg/response"
	"fieldbook/internal/pkg/validator"
)

type Handler struct {
	service *Service
	access  ProjectAccess
}

func NewHandler(service *Service, access ProjectAccess) *Handler {
	return &Handler{service: service, access: access}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/projects/:id/diary", h.ListEntries)
	rg.POST("/projects/:id/diary", h.CreateEntry)
	rg.PATCH("/diary/:id", h.UpdateEntry)
	rg.DELETE("/diary/:id", h.DeleteEntry)
}

func (h *Handler) ListEntries(c *gin.Context) {
	if !h.checkProject(c, false) {
		return
	}
	entries, err := h.service.ListByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list diary entries")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"entries": entries})
}

func (h *Handler) CreateEntry(c *gin.Context) {
	if !h.checkProject(c, true) {
		return
	}
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Diary entry failed validation", errs)
		return
	}

	e, err := h.service.Create(c.Request.Context(), c.Param("id"), c.GetString("user_id"), req)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"entry": e})
}

func (h *Handler) UpdateEntry(c *gin.Context) {
	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	e, err := h.service.Update(c.Request.Context(), c.Param("id"), c.GetString("user_id"), req)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"entry": e})
}

func (h *Handler) DeleteEntry(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), c.GetString("user_id")); err != nil {
		h.serviceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Diary entry not found")
	case errors.Is(err, ErrInvalidBearing):
		response.Error(c, http.StatusBadRequest, "INVALID_BEARING", "One or more bearings are not valid DMS text")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Diary entry failed validation")
	case errors.Is(err, ErrNotAuthor):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only the author can change this entry")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Diary operation failed")
	}
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
