package availability

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RulesFor returns the open windows of one weekday ordered by start time.
func (r *Repository) RulesFor(ctx context.Context, studioID int64, dayOfWeek int) ([]Rule, error) {
	var rules []Rule
	err := r.db.WithContext(ctx).
		Where("studio_id = ? AND day_of_week = ? AND is_available = ?", studioID, dayOfWeek, true).
		Order("start_time ASC").
		Find(&rules).Error
	return rules, err
}

func (r *Repository) List(ctx context.Context, studioID int64) ([]Rule, error) {
	var rules []Rule
	err := r.db.WithContext(ctx).
		Where("studio_id = ?", studioID).
		Order("day_of_week ASC, start_time ASC").
		Find(&rules).Error
	return rules, err
}

// ReplaceAll swaps the studio's rule set in one transaction; on any error the
// previous rules stay in place.
func (r *Repository) ReplaceAll(ctx context.Context, studioID int64, rules []Rule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("studio_id = ?", studioID).Delete(&Rule{}).Error; err != nil {
			return err
		}
		if len(rules) == 0 {
			return nil
		}
		for i := range rules {
			rules[i].ID = 0
			rules[i].StudioID = studioID
		}
		return tx.Create(&rules).Error
	})
}
