package client

import (
	"net/http"
	"strconv"

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
	studios.POST("/clients", h.GetOrCreate)
}

func (h *Handler) RegisterStaffRoutes(studios *gin.RouterGroup) {
	studios.GET("/clients", h.List)
}

func (h *Handler) GetOrCreate(c *gin.Context) {
	studioID, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var in Input
	if !request.BindJSON(c, &in) {
		return
	}
	cl, err := h.service.GetOrCreate(c.Request.Context(), studioID, in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"client": cl})
}

func (h *Handler) List(c *gin.Context) {
	studioID, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	clients, total, err := h.service.List(c.Request.Context(), studioID, limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"clients": clients, "total": total})
}
