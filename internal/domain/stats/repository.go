// Package stats computes studio dashboard figures with hand-written SQL.
package stats

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// Statuses counted as upcoming work.
var upcomingStatuses = []string{"PENDING", "CONFIRMED"}

const succeededPayment = "SUCCEEDED"

type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int64  `db:"count" json:"count"`
}

type Stats struct {
	TotalBookings    int64         `json:"total_bookings"`
	UpcomingBookings int64         `json:"upcoming_bookings"`
	TotalRevenue     float64       `json:"total_revenue"`
	AverageRating    float64       `json:"average_rating"`
	ReviewCount      int64         `json:"review_count"`
	ByStatus         []StatusCount `json:"by_status"`
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) StudioStats(ctx context.Context, studioID int64, now time.Time) (*Stats, error) {
	var s Stats

	if err := r.db.GetContext(ctx, &s.TotalBookings, r.db.Rebind(`
		SELECT COUNT(*) FROM bookings WHERE studio_id = ?
	`), studioID); err != nil {
		return nil, err
	}

	query, args, err := sqlx.In(`
		SELECT COUNT(*) FROM bookings
		WHERE studio_id = ? AND start_time >= ? AND status IN (?)
	`, studioID, now.UTC(), upcomingStatuses)
	if err != nil {
		return nil, err
	}
	if err := r.db.GetContext(ctx, &s.UpcomingBookings, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	if err := r.db.GetContext(ctx, &s.TotalRevenue, r.db.Rebind(`
		SELECT COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		WHERE b.studio_id = ? AND p.status = ?
	`), studioID, succeededPayment); err != nil {
		return nil, err
	}

	var rating struct {
		Average float64 `db:"average"`
		Count   int64   `db:"count"`
	}
	if err := r.db.GetContext(ctx, &rating, r.db.Rebind(`
		SELECT COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count
		FROM reviews WHERE studio_id = ?
	`), studioID); err != nil {
		return nil, err
	}
	s.AverageRating = rating.Average
	s.ReviewCount = rating.Count

	if err := r.db.SelectContext(ctx, &s.ByStatus, r.db.Rebind(`
		SELECT status, COUNT(*) AS count
		FROM bookings WHERE studio_id = ?
		GROUP BY status ORDER BY status
	`), studioID); err != nil {
		return nil, err
	}
	if s.ByStatus == nil {
		s.ByStatus = []StatusCount{}
	}
	return &s, nil
}
