// Package auth implements the simulated patient login.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/telemedpro/telemed/backend/internal/model/record"
	"github.com/telemedpro/telemed/backend/pkg/log"
	"github.com/telemedpro/telemed/backend/pkg/token"
)

// User is the identity carried in a session.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is returned on a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

// NameSource resolves the display name for a login.
type NameSource interface {
	Get(ctx context.Context) record.Profile
}

// Service issues tokens. Credentials are not checked against any store:
// any non-empty email and password pair is accepted.
type Service struct {
	tokens  *token.Manager
	profile NameSource
}

func NewService(tokens *token.Manager, profile NameSource) *Service {
	return &Service{tokens: tokens, profile: profile}
}

// Login validates the form and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return Session{}, record.ErrIncompleteForm
	}

	user := User{Email: email, Name: email}
	if s.profile != nil {
		if p := s.profile.Get(ctx); strings.EqualFold(p.User.Email, email) {
			user.Name = p.User.FullName
		}
	}

	raw, expires, err := s.tokens.Issue(user.Email, user.Name)
	if err != nil {
		return Session{}, err
	}
	log.Infow("user logged in", "email", user.Email)
	return Session{Token: raw, ExpiresAt: expires, User: user}, nil
}

// Authenticate verifies a bearer token.
func (s *Service) Authenticate(raw string) (User, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return User{}, err
	}
	return User{Email: claims.Email, Name: claims.Name}, nil
}
