package client

import (
	"context"
	"net/mail"
	"strings"

	"github.com/sirupsen/logrus"
)

type Service struct {
	repo    *Repository
	studios studioReader
	log     logrus.FieldLogger
}

func NewService(repo *Repository, studios studioReader, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, studios: studios, log: log}
}

// GetOrCreate resolves the studio's client record for in.Email.
func (s *Service) GetOrCreate(ctx context.Context, studioID int64, in Input) (*Client, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, ErrInvalidClient
	}
	if _, err := s.studios.GetByID(ctx, studioID); err != nil {
		return nil, err
	}

	c, created, err := s.repo.FindOrCreate(ctx, &Client{
		StudioID: studioID,
		Email:    email,
		Name:     strings.TrimSpace(in.Name),
		Phone:    strings.TrimSpace(in.Phone),
	})
	if err != nil {
		return nil, err
	}
	if created {
		s.log.WithFields(logrus.Fields{"studio_id": studioID, "client_id": c.ID}).Info("client created")
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, studioID, clientID int64) (*Client, error) {
	return s.repo.Get(ctx, studioID, clientID)
}

func (s *Service) List(ctx context.Context, studioID int64, limit, offset int) ([]Client, int64, error) {
	return s.repo.ListByStudio(ctx, studioID, limit, offset)
}
