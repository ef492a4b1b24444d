package staff

import "time"

type Role string

const (
	RoleOwner Role = "owner"
	RoleStaff Role = "staff"
)

func (r Role) Valid() bool { return r == RoleOwner || r == RoleStaff }

// User is a studio team member who signs in to manage bookings.
type User struct {
	ID           int64      `gorm:"primaryKey" json:"id"`
	StudioID     int64      `gorm:"index;not null" json:"studio_id"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Name         string     `gorm:"size:255" json:"name"`
	Role         Role       `gorm:"type:varchar(20);not null" json:"role"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "staff_users" }
