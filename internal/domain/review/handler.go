package review

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

// RegisterRoutes mounts the public listing under /studios/:id and review
// submission on the API root.
func (h *Handler) RegisterRoutes(api, studios *gin.RouterGroup) {
	studios.GET("/reviews", h.ListPublic)
	api.POST("/bookings/:id/reviews", h.Create)
}

func (h *Handler) Create(c *gin.Context) {
	bookingID, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req CreateRequest
	if !request.BindJSON(c, &req) {
		return
	}
	rv, err := h.service.Create(c.Request.Context(), bookingID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"review": rv})
}

func (h *Handler) ListPublic(c *gin.Context) {
	studioID, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	reviews, err := h.service.ListPublic(c.Request.Context(), studioID, limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reviews": reviews})
}
