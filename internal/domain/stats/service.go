package stats

import (
	"context"
	"math"
	"time"

	"studiobook/internal/domain/studio"
)

type studioReader interface {
	GetByID(ctx context.Context, id int64) (*studio.Studio, error)
}

type Service struct {
	repo    *Repository
	studios studioReader
	now     func() time.Time
}

func NewService(repo *Repository, studios studioReader) *Service {
	return &Service{repo: repo, studios: studios, now: time.Now}
}

func (s *Service) ForStudio(ctx context.Context, studioID int64) (*Stats, error) {
	if _, err := s.studios.GetByID(ctx, studioID); err != nil {
		return nil, err
	}
	st, err := s.repo.StudioStats(ctx, studioID, s.now())
	if err != nil {
		return nil, err
	}
	st.AverageRating = math.Round(st.AverageRating*100) / 100
	return st, nil
}
