package studio

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

// RegisterPublicRoutes mounts read-only catalog routes under /studios/:id.
func (h *Handler) RegisterPublicRoutes(studios *gin.RouterGroup) {
	studios.GET("", h.GetStudio)
	studios.GET("/rooms", h.ListRooms)
	studios.GET("/services", h.ListAddOns)
}

// RegisterStaffRoutes mounts settings routes on a group already scoped to
// the caller's studio.
func (h *Handler) RegisterStaffRoutes(studios *gin.RouterGroup, ownerOnly gin.HandlerFunc) {
	studios.PUT("/settings", ownerOnly, h.UpdateSettings)
	studios.POST("/rooms", ownerOnly, h.CreateRoom)
	studios.POST("/services", ownerOnly, h.CreateAddOn)
}

func (h *Handler) GetStudio(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	st, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"studio": st})
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateSettingsRequest
	if !request.BindJSON(c, &req) {
		return
	}
	st, err := h.service.UpdateSettings(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"studio": st})
}

func (h *Handler) ListRooms(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	rooms, err := h.service.Rooms(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

func (h *Handler) CreateRoom(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req CreateRoomRequest
	if !request.BindJSON(c, &req) {
		return
	}
	room, err := h.service.CreateRoom(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"room": room})
}

func (h *Handler) ListAddOns(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	addOns, err := h.service.AddOns(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": addOns})
}

func (h *Handler) CreateAddOn(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req CreateAddOnRequest
	if !request.BindJSON(c, &req) {
		return
	}
	a, err := h.service.CreateAddOn(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"service": a})
}
