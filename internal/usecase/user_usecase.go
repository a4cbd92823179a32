package usecase

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"skill-matrix/internal/apperrors"
	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/repository"
)

const minPasswordLength = 8

// UserService manages employees. Passwords are hashed on the way in and no
// credential ever leaves it.
type UserService struct {
	catalog *Catalog[catalog.User, *catalog.User]
	users   repository.UserStore
}

func NewUserService(users repository.UserStore, inv Invalidator) *UserService {
	return &UserService{
		catalog: NewCatalog[catalog.User, *catalog.User](users, inv),
		users:   users,
	}
}

func (s *UserService) List(ctx context.Context) ([]catalog.User, error) {
	list, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i] = list[i].Sanitized()
	}
	return list, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (catalog.User, error) {
	u, err := s.catalog.Get(ctx, id)
	if err != nil {
		return catalog.User{}, err
	}
	return u.Sanitized(), nil
}

func (s *UserService) Upsert(ctx context.Context, actor string, u catalog.User) (catalog.User, error) {
	u.PasswordHash = ""
	if pw := u.Password; pw != "" {
		if len(strings.TrimSpace(pw)) < minPasswordLength {
			return catalog.User{}, apperrors.NewValidation("password")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			return catalog.User{}, err
		}
		u.PasswordHash = string(hash)
	}
	u.Password = ""

	saved, err := s.catalog.Upsert(ctx, actor, u)
	if err != nil {
		return catalog.User{}, err
	}
	return saved.Sanitized(), nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.catalog.Delete(ctx, id)
}

// Authenticate checks email and password. Unknown emails, inactive users and
// wrong passwords all fail the same way.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (catalog.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return catalog.User{}, apperrors.ErrInvalidCredentials
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsItemFailure(err) {
			return catalog.User{}, apperrors.ErrInvalidCredentials
		}
		return catalog.User{}, err
	}
	if !u.Active || u.PasswordHash == "" {
		return catalog.User{}, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return catalog.User{}, apperrors.ErrInvalidCredentials
	}
	return u.Sanitized(), nil
}
