package availability

import (
	"net/http"

	"studiobook/internal/pkg/request"
	"studiobook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(studios *gin.RouterGroup) {
	studios.GET("/availability", h.List)
}

func (h *Handler) RegisterStaffRoutes(studios *gin.RouterGroup, ownerOnly gin.HandlerFunc) {
	studios.PUT("/availability", ownerOnly, h.Replace)
}

func (h *Handler) List(c *gin.Context) {
	studioID, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	rules, err := h.service.List(c.Request.Context(), studioID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rules": rules})
}

func (h *Handler) Replace(c *gin.Context) {
	studioID, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req SetAvailabilityRequest
	if !request.BindJSON(c, &req) {
		return
	}
	rules, err := h.service.Replace(c.Request.Context(), studioID, req.Rules)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rules": rules})
}
