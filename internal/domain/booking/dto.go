package booking

import (
	"time"

	"studiobook/internal/domain/client"
)

type SlotQuery struct {
	Date            string `form:"date" binding:"required"`
	DurationMinutes int    `form:"duration" binding:"required,gte=30"`
	RoomID          *int64 `form:"room_id" binding:"omitempty,gt=0"`
}

// CreateBookingRequest names the client either by id or by contact details.
type CreateBookingRequest struct {
	ClientID        *int64        `json:"client_id" binding:"omitempty,gt=0"`
	Client          *client.Input `json:"client"`
	RoomID          *int64        `json:"room_id" binding:"omitempty,gt=0"`
	StartTime       time.Time     `json:"start_time" binding:"required"`
	DurationMinutes int           `json:"duration_minutes" binding:"required,gte=30"`
	ServiceIDs      []int64       `json:"service_ids"`
	Notes           string        `json:"notes" binding:"max=2000"`
}

type UpdateStatusRequest struct {
	Status        Status  `json:"status" binding:"required"`
	InternalNotes *string `json:"internal_notes" binding:"omitempty,max=2000"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type ListQuery struct {
	Status string `form:"status"`
	Limit  int    `form:"limit,default=50" binding:"gte=1,lte=200"`
	Offset int    `form:"offset,default=0" binding:"gte=0"`
}
