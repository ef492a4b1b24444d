package review

import "time"

type Review struct {
	ID        int64     `json:"id"`
	StudioID  int64     `json:"studio_id"`
	BookingID int64     `json:"booking_id"`
	ClientID  int64     `json:"client_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	MinRating = 1
	MaxRating = 5
)
