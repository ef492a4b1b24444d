package review

import (
	"context"
	"time"

	"studiobook/internal/database"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Model is the persisted form of a review; BookingID is unique so a booking
// can be reviewed once.
type Model struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	StudioID  int64     `gorm:"column:studio_id;index;not null"`
	BookingID int64     `gorm:"column:booking_id;uniqueIndex;not null"`
	ClientID  int64     `gorm:"column:client_id;not null"`
	Rating    int       `gorm:"column:rating;not null"`
	Comment   *string   `gorm:"column:comment;type:text"`
	IsPublic  bool      `gorm:"column:is_public;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Model) TableName() string { return "reviews" }

func toDomain(m Model) Review {
	comment := ""
	if m.Comment != nil {
		comment = *m.Comment
	}
	return Review{
		ID:        m.ID,
		StudioID:  m.StudioID,
		BookingID: m.BookingID,
		ClientID:  m.ClientID,
		Rating:    m.Rating,
		Comment:   comment,
		IsPublic:  m.IsPublic,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toModel(r *Review) Model {
	var comment *string
	if r.Comment != "" {
		v := r.Comment
		comment = &v
	}
	return Model{
		ID:        r.ID,
		StudioID:  r.StudioID,
		BookingID: r.BookingID,
		ClientID:  r.ClientID,
		Rating:    r.Rating,
		Comment:   comment,
		IsPublic:  r.IsPublic,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r *Repository) Create(ctx context.Context, rv *Review) error {
	m := toModel(rv)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrAlreadyReviewed
		}
		return err
	}
	*rv = toDomain(m)
	return nil
}

func (r *Repository) ExistsForBooking(ctx context.Context, bookingID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Model{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) ListPublic(ctx context.Context, studioID int64, limit, offset int) ([]Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var rows []Model
	err := r.db.WithContext(ctx).
		Where("studio_id = ? AND is_public = ?", studioID, true).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomain(m))
	}
	return out, nil
}
