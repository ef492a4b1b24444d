package studio

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, s *Studio) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Studio, error) {
	var s Studio
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudioNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Save writes every settings column of s.
func (r *Repository) Save(ctx context.Context, s *Studio) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *Repository) ListRooms(ctx context.Context, studioID int64) ([]Room, error) {
	var rooms []Room
	err := r.db.WithContext(ctx).
		Where("studio_id = ? AND is_active = ?", studioID, true).
		Order("name ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *Repository) GetRoom(ctx context.Context, studioID, roomID int64) (*Room, error) {
	var room Room
	err := r.db.WithContext(ctx).
		Where("id = ? AND studio_id = ?", roomID, studioID).
		First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *Repository) CreateRoom(ctx context.Context, room *Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *Repository) ListAddOns(ctx context.Context, studioID int64) ([]AddOn, error) {
	var addOns []AddOn
	err := r.db.WithContext(ctx).
		Where("studio_id = ? AND is_active = ?", studioID, true).
		Order("category ASC, name ASC").
		Find(&addOns).Error
	return addOns, err
}

func (r *Repository) CreateAddOn(ctx context.Context, a *AddOn) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// AddOnPrices returns id -> price for the active add-ons of the studio among ids.
func (r *Repository) AddOnPrices(ctx context.Context, studioID int64, ids []int64) (map[int64]float64, error) {
	prices := make(map[int64]float64, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}
	var addOns []AddOn
	err := r.db.WithContext(ctx).
		Select("id", "price").
		Where("studio_id = ? AND is_active = ? AND id IN ?", studioID, true, ids).
		Find(&addOns).Error
	if err != nil {
		return nil, err
	}
	for _, a := range addOns {
		prices[a.ID] = a.Price
	}
	return prices, nil
}
