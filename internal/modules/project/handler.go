package project

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldbook/internal/pkg/response"
	"fieldbook/internal/projectstore"
)

type Handler struct {
	store *projectstore.Manager
	svc   *Service
}

func NewHandler(store *projectstore.Manager, svc *Service) *Handler {
	return &Handler{store: store, svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/projects", h.ListProjects)
	rg.POST("/projects", h.CreateProject)
	rg.GET("/projects/stats", h.ProjectStats)
	rg.GET("/projects/:id", h.GetProject)
	rg.PATCH("/projects/:id", h.UpdateProject)
	rg.DELETE("/projects/:id", h.DeleteProject)
	rg.PATCH("/projects/:id/phase", h.UpdatePhase)
	rg.PATCH("/projects/:id/status", h.UpdateStatus)
	rg.POST("/projects/:id/supervision", h.RequestSupervision)
	rg.DELETE("/projects/:id/supervision", h.RemoveSupervision)
}

func (h *Handler) ListProjects(c *gin.Context) {
	userID := c.GetString("user_id")
	force := c.Query("refresh") == "true"

	res := h.store.LoadUserProjects(c.Request.Context(), userID, force)
	if !res.Success {
		h.storeError(c, res)
		return
	}

	// Nil data means the list was served from the cache window.
	response.Success(c, http.StatusOK, gin.H{
		"projects": h.store.Snapshot().Projects,
		"cached":   res.Data == nil,
	})
}

func (h *Handler) CreateProject(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res := h.store.CreateProject(c.Request.Context(), req.toProject(userID))
	if !res.Success {
		h.storeError(c, res)
		return
	}
	response.Success(c, http.StatusCreated, res.Data)
}

func (h *Handler) GetProject(c *gin.Context) {
	if !h.authorize(c, false) {
		return
	}
	res := h.store.LoadProject(c.Request.Context(), c.Param("id"))
	if !res.Success {
		h.storeError(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data)
}

func (h *Handler) UpdateProject(c *gin.Context) {
	if !h.authorize(c, true) {
		return
	}
	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	res := h.store.UpdateProject(c.Request.Context(), c.Param("id"), req.toUpdate())
	if !res.Success {
		h.storeError(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	if !h.authorize(c, true) {
		return
	}
	res := h.store.DeleteProject(c.Request.Context(), c.Param("id"))
	if !res.Success {
		h.storeError(c, res)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) UpdatePhase(c *gin.Context) {
	if !h.authorize(c, true) {
		return
	}
	var req PhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	res := h.store.UpdateProjectPhase(c.Request.Context(), c.Param("id"), req.Phase)
	if !res.Success {
		h.storeError(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	if !h.authorize(c, true) {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	res := h.store.UpdateProjectStatus(c.Request.Context(), c.Param("id"), req.Status)
	if !res.Success {
		h.storeError(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data)
}

func (h *Handler) RequestSupervision(c *gin.Context) {
	if !h.authorize(c, true) {
		return
	}
	var req SupervisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	res := h.store.RequestSupervision(c.Request.Context(), c.Param("id"), req.SupervisorID)
	if !res.Success {
		h.storeError(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data)
}

func (h *Handler) RemoveSupervision(c *gin.Context) {
	if !h.authorize(c, true) {
		return
	}
	res := h.store.RemoveSupervision(c.Request.Context(), c.Param("id"))
	if !res.Success {
		h.storeError(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data)
}

func (h *Handler) ProjectStats(c *gin.Context) {
	userID := c.GetString("user_id")
	res := h.store.LoadProjectStats(c.Request.Context(), userID)
	if !res.Success {
		h.storeError(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data)
}

// authorize checks project access for the authenticated user and writes the
// error response itself when access is denied.
func (h *Handler) authorize(c *gin.Context, write bool) bool {
	err := h.svc.VerifyAccess(c.Request.Context(), c.Param("id"), c.GetString("user_id"), write)
	switch err {
	case nil:
		return true
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Project not found")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to access this project")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check project access")
	}
	return false
}

// storeError maps a failed manager result onto the response envelope. The
// manager flattens remote errors to messages, so matching is by sentinel text.
func (h *Handler) storeError(c *gin.Context, res projectstore.Result) {
	switch res.Error {
	case ErrValidation.Error():
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", res.Error)
	case ErrDuplicateTitle.Error():
		response.Error(c, http.StatusConflict, "DUPLICATE_TITLE", res.Error)
	case ErrNotFound.Error():
		response.Error(c, http.StatusNotFound, "NOT_FOUND", res.Error)
	case "timed out loading projects":
		response.Error(c, http.StatusGatewayTimeout, "LOAD_TIMEOUT", res.Error)
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", res.Error)
	}
}
