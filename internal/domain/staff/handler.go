package staff

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

func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup) {
	api.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterStaffRoutes(studios *gin.RouterGroup, ownerOnly gin.HandlerFunc) {
	studios.POST("/staff", ownerOnly, h.Create)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !request.BindJSON(c, &req) {
		return
	}
	res, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Create(c *gin.Context) {
	studioID, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req CreateRequest
	if !request.BindJSON(c, &req) {
		return
	}
	u, err := h.service.Create(c.Request.Context(), studioID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": u})
}
