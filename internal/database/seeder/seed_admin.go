package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"skill-matrix/internal/apperrors"
	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/repository"
)

// AdminSeeder creates the bootstrap manager account. An empty email disables
// it; an existing account with that email is never touched.
type AdminSeeder struct {
	FullName string
	Email    string
	Password string
}

func (AdminSeeder) Name() string { return "admin" }

func (a AdminSeeder) Run(ctx context.Context, s repository.Stores) error {
	email := strings.ToLower(strings.TrimSpace(a.Email))
	if email == "" {
		return nil
	}
	if a.Password == "" {
		return fmt.Errorf("admin %s: empty password", email)
	}

	_, err := s.Users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(a.FullName)
	if name == "" {
		name = "Administrator"
	}
	u := catalog.User{
		Name:         name,
		Email:        email,
		Role:         catalog.RoleManager,
		PasswordHash: string(hash),
		Active:       true,
	}
	u.Touch(nil, seedActor, time.Now())
	_, err = s.Users.Create(ctx, u)
	return err
}
