package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ortam/docbuilder/internal/config"
	"github.com/ortam/docbuilder/internal/logging"
	"github.com/ortam/docbuilder/internal/store"
)

// DefaultAdminName names a seeded administrator when none is configured.
const DefaultAdminName = "System Administrator"

// UserStore is the subset of the store the seeder and login need.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
	CreateUser(ctx context.Context, u *store.User) error
}

// Seeder creates the configured administrator account once.
type Seeder struct {
	users  UserStore
	cfg    config.SeedConfig
	logger logging.Logger
}

// NewSeeder returns a seeder for cfg.
func NewSeeder(users UserStore, cfg config.SeedConfig, logger logging.Logger) *Seeder {
	return &Seeder{users: users, cfg: cfg, logger: logger}
}

// Enabled reports whether both an email and a password are configured.
func (s *Seeder) Enabled() bool {
	return s.cfg.AdminEmail != "" && s.cfg.AdminPassword != ""
}

// Seed creates the administrator unless seeding is disabled or the account
// already exists. It returns true when a user was created.
func (s *Seeder) Seed(ctx context.Context) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}

	_, err := s.users.GetUserByEmail(ctx, s.cfg.AdminEmail)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("look up seed user: %w", err)
	}

	hash, err := HashPassword(s.cfg.AdminPassword)
	if err != nil {
		return false, err
	}

	name := s.cfg.AdminName
	if name == "" {
		name = DefaultAdminName
	}
	u := &store.User{
		Email:        s.cfg.AdminEmail,
		PasswordHash: hash,
		Name:         name,
		Role:         store.ParseRole(strings.ToUpper(s.cfg.AdminRole)),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		// Lost a race with a concurrent login.
		if errors.Is(err, store.ErrAlreadyExists) {
			return false, nil
		}
		return false, fmt.Errorf("create seed user: %w", err)
	}

	s.logger.Info("Seeded administrator",
		logging.String("email", u.Email),
		logging.String("role", string(u.Role)),
	)
	return true, nil
}
