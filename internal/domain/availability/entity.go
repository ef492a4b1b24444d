package availability

import "time"

// Rule is one weekly open-hours window. Times are HH:MM wall-clock in the
// studio timezone; DayOfWeek follows time.Weekday (0 = Sunday).
type Rule struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	StudioID    int64     `gorm:"index:idx_availability_studio_day,priority:1;not null" json:"studio_id"`
	DayOfWeek   int       `gorm:"index:idx_availability_studio_day,priority:2;not null" json:"day_of_week"`
	StartTime   string    `gorm:"size:5;not null" json:"start_time"`
	EndTime     string    `gorm:"size:5;not null" json:"end_time"`
	IsAvailable bool      `gorm:"not null" json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Rule) TableName() string { return "availability_rules" }
