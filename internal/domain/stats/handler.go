package stats

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

func (h *Handler) RegisterStaffRoutes(studios *gin.RouterGroup) {
	studios.GET("/stats", h.Get)
}

func (h *Handler) Get(c *gin.Context) {
	studioID, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	st, err := h.service.ForStudio(c.Request.Context(), studioID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": st})
}
