package annotation

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	jwtsvc "fieldbook/internal/pkg/jwt"
	"fieldbook/internal/pkg/response"
)

type Handler struct {
	service *Service
	hub     *Hub
	jwt     *jwtsvc.Service
}

func NewHandler(service *Service, hub *Hub, jwt *jwtsvc.Service) *Handler {
	return &Handler{service: service, hub: hub, jwt: jwt}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents/:id/annotations", h.ListAnnotations)
	rg.POST("/documents/:id/annotations", h.CreateAnnotation)
	rg.PATCH("/annotations/:id", h.UpdateAnnotation)
	rg.DELETE("/annotations/:id", h.DeleteAnnotation)
}

// RegisterWSRoutes attaches the websocket endpoint. It lives outside the
// Bearer-protected group because browsers cannot set headers on websocket
// dials; the token travels as a query parameter instead.
func (h *Handler) RegisterWSRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/documents/:id", h.HandleWebSocket)
}

func (h *Handler) ListAnnotations(c *gin.Context) {
	annotations, err := h.service.ListByDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list annotations")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"annotations": annotations})
}

func (h *Handler) CreateAnnotation(c *gin.Context) {
	var req CreateAnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.Create(c.Request.Context(), c.Param("id"), c.GetString("user_id"), req)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"annotation": a})
}

func (h *Handler) UpdateAnnotation(c *gin.Context) {
	var req UpdateAnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.Update(c.Request.Context(), c.Param("id"), c.GetString("user_id"), req)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"annotation": a})
}

func (h *Handler) DeleteAnnotation(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), c.GetString("user_id")); err != nil {
		h.serviceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// HandleWebSocket upgrades the connection and subscribes it to the document
// in the path. Endpoint: GET /ws/documents/:id?token=JWT
func (h *Handler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token is required; use ?token=...")
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed user_id=%s err=%v", claims.UserID, err)
		return
	}

	h.hub.ServeWS(conn, claims.UserID, []string{c.Param("id")})
}

func (h *Handler) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Annotation not found")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Annotation failed validation")
	case errors.Is(err, ErrNotCreator):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only the creator can change this annotation")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Annotation operation failed")
	}
}
