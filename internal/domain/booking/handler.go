package booking

import (
	"net/http"
	"strings"

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

// RegisterPublicRoutes mounts slot lookup and booking creation under
// /studios/:id. createLimit throttles booking creation.
func (h *Handler) RegisterPublicRoutes(studios *gin.RouterGroup, createLimit gin.HandlerFunc) {
	studios.GET("/slots", h.GetSlots)
	studios.POST("/bookings", createLimit, h.CreateBooking)
}

func (h *Handler) RegisterStaffRoutes(studios *gin.RouterGroup) {
	studios.GET("/bookings", h.ListBookings)
	studios.GET("/bookings/:bookingId", h.GetBooking)
	studios.PATCH("/bookings/:bookingId/status", h.UpdateStatus)
	studios.POST("/bookings/:bookingId/cancel", h.CancelBooking)
}

func (h *Handler) GetSlots(c *gin.Context) {
	studioID, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var q SlotQuery
	if !request.BindQuery(c, &q) {
		return
	}
	slots, err := h.service.GetAvailableSlots(c.Request.Context(), studioID, q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"date":     q.Date,
		"duration": q.DurationMinutes,
		"slots":    slots,
	})
}

func (h *Handler) CreateBooking(c *gin.Context) {
	studioID, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req CreateBookingRequest
	if !request.BindJSON(c, &req) {
		return
	}
	b, err := h.service.CreateBooking(c.Request.Context(), studioID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) ListBookings(c *gin.Context) {
	studioID, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var q ListQuery
	if !request.BindQuery(c, &q) {
		return
	}
	from, ok := request.OptionalTime(c, "from")
	if !ok {
		return
	}
	to, ok := request.OptionalTime(c, "to")
	if !ok {
		return
	}

	f := ListFilter{From: from, To: to, Limit: q.Limit, Offset: q.Offset}
	if q.Status != "" {
		st := Status(strings.ToUpper(q.Status))
		f.Status = &st
	}
	bookings, total, err := h.service.ListByStudio(c.Request.Context(), studioID, f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    total,
		"limit":    q.Limit,
		"offset":   q.Offset,
	})
}

func (h *Handler) GetBooking(c *gin.Context) {
	studioID, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	bookingID, ok := request.ParamID(c, "bookingId")
	if !ok {
		return
	}
	b, err := h.service.Get(c.Request.Context(), studioID, bookingID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	studioID, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	bookingID, ok := request.ParamID(c, "bookingId")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !request.BindJSON(c, &req) {
		return
	}
	b, err := h.service.UpdateStatus(c.Request.Context(), studioID, bookingID, Status(strings.ToUpper(string(req.Status))), req.InternalNotes)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	studioID, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	bookingID, ok := request.ParamID(c, "bookingId")
	if !ok {
		return
	}
	var req CancelRequest
	if c.Request.ContentLength > 0 && !request.BindJSON(c, &req) {
		return
	}
	b, err := h.service.Cancel(c.Request.Context(), studioID, bookingID, req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"booking":                  b,
		"cancellation_fee_applies": b.CancellationFeeApplies,
	})
}
