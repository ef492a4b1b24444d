package payment

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

// RegisterPublicRoutes mounts client-facing payment routes on the API root.
// createLimit throttles intent creation.
func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup, createLimit gin.HandlerFunc) {
	api.POST("/bookings/:id/payments", createLimit, h.CreateIntent)
	api.POST("/payments/:id/confirm", h.Confirm)
}

// RegisterStaffRoutes mounts ledger routes under /studios/:id.
func (h *Handler) RegisterStaffRoutes(studios *gin.RouterGroup, ownerOnly gin.HandlerFunc) {
	studios.GET("/bookings/:bookingId/payments", h.ListByBooking)
	studios.POST("/payments/:paymentId/refund", ownerOnly, h.Refund)
}

func (h *Handler) CreateIntent(c *gin.Context) {
	bookingID, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req CreateIntentRequest
	if !request.BindJSON(c, &req) {
		return
	}
	res, err := h.service.CreatePaymentIntent(c.Request.Context(), bookingID, req.PaymentType)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

func (h *Handler) Confirm(c *gin.Context) {
	paymentID, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req ConfirmRequest
	if !request.BindJSON(c, &req) {
		return
	}
	p, err := h.service.ConfirmPayment(c.Request.Context(), paymentID, req.PaymentIntentID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": p})
}

func (h *Handler) ListByBooking(c *gin.Context) {
	studioID, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	bookingID, ok := request.ParamID(c, "bookingId")
	if !ok {
		return
	}
	payments, err := h.service.ListForStudioBooking(c.Request.Context(), studioID, bookingID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payments": payments})
}

func (h *Handler) Refund(c *gin.Context) {
	studioID, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	paymentID, ok := request.ParamID(c, "paymentId")
	if !ok {
		return
	}
	var req RefundRequest
	if c.Request.ContentLength > 0 && !request.BindJSON(c, &req) {
		return
	}
	if _, err := h.service.GetForStudio(c.Request.Context(), studioID, paymentID); err != nil {
		response.FromError(c, err)
		return
	}
	p, err := h.service.Refund(c.Request.Context(), paymentID, req.Amount, req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": p})
}
