package client

import (
	"context"
	"fmt"
	"net/http"

	"skill-matrix/internal/delivery/http/dto"
	"skill-matrix/internal/domain/analytics"
	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/domain/grading"
	"skill-matrix/internal/domain/mapping"
	"skill-matrix/internal/domain/resolution"
)

const apiPrefix = "/api/v1"

var _ grading.Writer = (*Client)(nil)

// Login exchanges credentials for tokens and keeps the access token for
// later calls.
func (c *Client) Login(ctx context.Context, email, password string) (dto.AuthResponse, error) {
	var out dto.AuthResponse
	err := c.do(ctx, http.MethodPost, apiPrefix+"/auth/login", dto.LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	c.SetToken(out.Token)
	return out, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (dto.AuthResponse, error) {
	var out dto.AuthResponse
	err := c.do(ctx, http.MethodPost, apiPrefix+"/auth/refresh", dto.RefreshRequest{RefreshToken: refreshToken}, &out)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	c.SetToken(out.Token)
	return out, nil
}

func (c *Client) Me(ctx context.Context) (catalog.User, error) {
	var out catalog.User
	err := c.do(ctx, http.MethodGet, apiPrefix+"/me", nil, &out)
	return out, err
}

func (c *Client) Scope(ctx context.Context, userID int64) (resolution.Scope, error) {
	var out resolution.Scope
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/users/%d/scope", apiPrefix, userID), nil, &out)
	return out, err
}

func (c *Client) Stats(ctx context.Context, userID int64) (analytics.UserStats, error) {
	var out analytics.UserStats
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/users/%d/stats", apiPrefix, userID), nil, &out)
	return out, err
}

func (c *Client) Grades(ctx context.Context) ([]catalog.Grade, error) {
	var out []catalog.Grade
	err := c.do(ctx, http.MethodGet, apiPrefix+"/grades", nil, &out)
	return out, err
}

func (c *Client) SkillMaps(ctx context.Context, userID int64) ([]mapping.SkillMap, error) {
	var out []mapping.SkillMap
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/skill-maps?userId=%d", apiPrefix, userID), nil, &out)
	return out, err
}

// AssignGrade posts one skill-grade upsert. It makes the client usable as a
// grading.Writer, so a locally staged session can be committed over HTTP.
func (c *Client) AssignGrade(ctx context.Context, subskillID, userID, gradeID int64) error {
	body := mapping.SkillMap{SubskillID: subskillID, UserID: userID, GradeID: gradeID, Active: true}
	return c.do(ctx, http.MethodPost, apiPrefix+"/skill-maps", body, nil)
}

// LoadSession starts a grading session for userID from the server's view of
// the employee's scope and current grades.
func (c *Client) LoadSession(ctx context.Context, userID int64) (grading.Session, error) {
	scope, err := c.Scope(ctx, userID)
	if err != nil {
		return grading.Session{}, err
	}
	maps, err := c.SkillMaps(ctx, userID)
	if err != nil {
		return grading.Session{}, err
	}
	return grading.New().Select(userID, scope, maps), nil
}
