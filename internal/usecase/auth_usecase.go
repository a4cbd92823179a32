package usecase

import (
	"context"
	"errors"
	"fmt"

	"skill-matrix/internal/apperrors"
	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/pkg/jwt"
	"skill-matrix/internal/repository"
)

var (
	ErrInvalidRefreshToken = fmt.Errorf("%w: invalid refresh token", apperrors.ErrUnauthorized)
	ErrRefreshTokenExpired = fmt.Errorf("%w: refresh token expired", apperrors.ErrUnauthorized)
)

type AuthResult struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         catalog.User `json:"user"`
}

type AuthUsecase interface {
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (AuthResult, error)
	Me(ctx context.Context, userID int64) (catalog.User, error)
}

type Auth struct {
	users *UserService
	store repository.UserStore
	jwt   jwt.Service
}

func NewAuthUsecase(users *UserService, store repository.UserStore, jwtSvc jwt.Service) *Auth {
	return &Auth{users: users, store: store, jwt: jwtSvc}
}

func (u *Auth) Login(ctx context.Context, email, password string) (AuthResult, error) {
	usr, err := u.users.Authenticate(ctx, email, password)
	if err != nil {
		return AuthResult{}, err
	}
	return u.issue(usr)
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	if refreshToken == "" {
		return AuthResult{}, apperrors.ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return AuthResult{}, ErrRefreshTokenExpired
		}
		return AuthResult{}, ErrInvalidRefreshToken
	}
	if !u.jwt.IsRefreshToken(claims) {
		return AuthResult{}, ErrInvalidRefreshToken
	}

	usr, err := u.store.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return AuthResult{}, ErrInvalidRefreshToken
		}
		return AuthResult{}, err
	}
	if !usr.Active {
		return AuthResult{}, ErrInvalidRefreshToken
	}
	return u.issue(usr.Sanitized())
}

func (u *Auth) Me(ctx context.Context, userID int64) (catalog.User, error) {
	return u.users.Get(ctx, userID)
}

func (u *Auth) issue(usr catalog.User) (AuthResult, error) {
	access, err := u.jwt.GenerateAccessToken(jwt.Subject{UserID: usr.ID, Email: usr.Email, Role: string(usr.Role)})
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := u.jwt.GenerateRefreshToken(usr.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return AuthResult{Token: access, RefreshToken: refresh, User: usr}, nil
}
