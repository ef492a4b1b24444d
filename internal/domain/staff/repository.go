package staff

import (
	"context"
	"errors"
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

func (r *Repository) Create(ctx context.Context, u *User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// FindByEmail returns nil without error when no account matches.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("last_login_at", at.UTC()).Error
}
