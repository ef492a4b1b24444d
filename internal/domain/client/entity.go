package client

import "time"

// Client is unique per (email, studio); the same person booking two studios
// has two records.
type Client struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	StudioID  int64     `gorm:"uniqueIndex:idx_clients_email_studio,priority:2;not null" json:"studio_id"`
	Email     string    `gorm:"size:255;uniqueIndex:idx_clients_email_studio,priority:1;not null" json:"email"`
	Name      string    `gorm:"size:255" json:"name"`
	Phone     string    `gorm:"size:50" json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Client) TableName() string { return "clients" }
