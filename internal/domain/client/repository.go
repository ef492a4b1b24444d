package client

import (
	"context"
	"errors"

	"studiobook/internal/database"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(ctx context.Context, studioID, id int64) (*Client, error) {
	var c Client
	err := r.db.WithContext(ctx).Where("id = ? AND studio_id = ?", id, studioID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repository) FindByEmail(ctx context.Context, studioID int64, email string) (*Client, error) {
	var c Client
	err := r.db.WithContext(ctx).Where("studio_id = ? AND email = ?", studioID, email).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindOrCreate returns the client with c's (studio, email), inserting c when
// none exists. A concurrent insert of the same pair is resolved by re-reading.
func (r *Repository) FindOrCreate(ctx context.Context, c *Client) (*Client, bool, error) {
	existing, err := r.FindByEmail(ctx, c.StudioID, c.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrClientNotFound) {
		return nil, false, err
	}

	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if database.IsUniqueViolation(err) {
			existing, err := r.FindByEmail(ctx, c.StudioID, c.Email)
			return existing, false, err
		}
		return nil, false, err
	}
	return c, true, nil
}

func (r *Repository) ListByStudio(ctx context.Context, studioID int64, limit, offset int) ([]Client, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).Model(&Client{}).Where("studio_id = ?", studioID).Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var clients []Client
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&clients).Error
	return clients, total, err
}
