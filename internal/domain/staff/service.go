package staff

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// dummyHash keeps unknown-email logins as slow as wrong-password ones.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3ZeGqT1i7nDTdQ9R5C4RZ9u"

type Service struct {
	repo    *Repository
	studios studioReader
	tokens  tokenIssuer
	log     logrus.FieldLogger
}

func NewService(repo *Repository, studios studioReader, tokens tokenIssuer, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, studios: studios, tokens: tokens, log: log}
}

// Create adds an account to a studio.
func (s *Service) Create(ctx context.Context, studioID int64, req CreateRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || len(req.Password) < 8 || !req.Role.Valid() {
		return nil, ErrInvalidAccount
	}
	if _, err := s.studios.GetByID(ctx, studioID); err != nil {
		return nil, err
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &User{
		StudioID:     studioID,
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"studio_id": studioID, "user_id": u.ID, "role": u.Role}).Info("staff account created")
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		_ = CheckPassword(password, dummyHash)
		return nil, ErrInvalidCredentials
	}
	if err := CheckPassword(password, u.PasswordHash); err != nil {
		s.log.WithField("user_id", u.ID).Warn("staff login rejected")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateToken(u.ID, u.StudioID, string(u.Role))
	if err != nil {
		return nil, err
	}
	if err := s.repo.TouchLogin(ctx, u.ID, time.Now()); err != nil {
		s.log.WithError(err).WithField("user_id", u.ID).Warn("last login update failed")
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}
