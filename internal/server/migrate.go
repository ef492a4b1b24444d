package server

import (
	"studiobook/internal/domain/availability"
	"studiobook/internal/domain/booking"
	"studiobook/internal/domain/client"
	"studiobook/internal/domain/payment"
	"studiobook/internal/domain/review"
	"studiobook/internal/domain/staff"
	"studiobook/internal/domain/studio"

	"gorm.io/gorm"
)

// Migrate brings the schema up to date with every persisted model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&studio.Studio{},
		&studio.Room{},
		&studio.AddOn{},
		&availability.Rule{},
		&client.Client{},
		&booking.Booking{},
		&booking.LineItem{},
		&payment.Payment{},
		&review.Model{},
		&staff.User{},
	)
}
