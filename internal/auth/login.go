package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/ortam/docbuilder/internal/logging"
	"github.com/ortam/docbuilder/internal/store"
)

// Service authenticates users against the store.
type Service struct {
	users  UserStore
	tokens *JWTManager
	seeder *Seeder
}

// NewService wires login. seeder may be nil.
func NewService(users UserStore, tokens *JWTManager, seeder *Seeder) *Service {
	return &Service{users: users, tokens: tokens, seeder: seeder}
}

// Tokens returns the manager used to validate bearer tokens.
func (s *Service) Tokens() *JWTManager {
	return s.tokens
}

// Login verifies the credentials and returns a signed token for the user.
// The configured administrator is seeded first so the very first login can
// succeed on an empty database; seeding failures are logged, not returned.
func (s *Service) Login(ctx context.Context, email, password string) (string, *store.User, error) {
	if s.seeder != nil {
		if _, err := s.seeder.Seed(ctx); err != nil {
			s.seeder.logger.Warn("Admin seeding before login failed", logging.Err(err))
		}
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("look up user: %w", err)
	}
	if err := CheckPassword(u.PasswordHash, password); err != nil {
		return "", nil, err
	}

	token, err := s.tokens.GenerateToken(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}
