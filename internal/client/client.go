// Package client is a Go SDK for the skill-matrix API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	fiberclient "github.com/gofiber/fiber/v3/client"

	"skill-matrix/internal/apperrors"
)

const defaultTimeout = 10 * time.Second

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

type Client struct {
	http  *fiberclient.Client
	token string
}

func New(baseURL string, opts ...Option) *Client {
	hc := fiberclient.New()
	hc.SetBaseURL(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	hc.SetTimeout(defaultTimeout)

	c := &Client{http: hc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) {
	c.token = token
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do sends one request and decodes the envelope's data into out. Network
// failures and 5xx answers come back wrapped in apperrors.ErrTransport.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	cfg := fiberclient.Config{Ctx: ctx, Header: map[string]string{"Accept": "application/json"}}
	if c.token != "" {
		cfg.Header["Authorization"] = "Bearer " + c.token
	}
	if body != nil {
		cfg.Body = body
	}

	var (
		resp *fiberclient.Response
		err  error
	)
	switch method {
	case http.MethodGet:
		resp, err = c.http.Get(path, cfg)
	case http.MethodPost:
		resp, err = c.http.Post(path, cfg)
	case http.MethodDelete:
		resp, err = c.http.Delete(path, cfg)
	default:
		return fmt.Errorf("unsupported method %s", method)
	}
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", apperrors.ErrTransport, method, path, err)
	}
	defer resp.Close()

	status := resp.StatusCode()
	var env envelope
	if raw := resp.Body(); len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			if status >= 200 && status < 300 {
				return fmt.Errorf("%w: decode %s %s: %w", apperrors.ErrTransport, method, path, err)
			}
			env.Message = strings.TrimSpace(string(raw))
		}
	}

	if status < 200 || status >= 300 {
		return statusError(status, env)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %w", apperrors.ErrTransport, method, path, err)
	}
	return nil
}

// statusError turns an API error answer into the matching apperrors value.
func statusError(status int, env envelope) error {
	msg := env.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		var data struct {
			Fields []string `json:"fields"`
		}
		_ = json.Unmarshal(env.Data, &data)
		return apperrors.NewValidation(data.Fields...)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg, apperrors.ErrNotFound)
	case http.StatusConflict:
		if len(env.Data) > 0 && string(env.Data) != "null" {
			return &apperrors.DuplicateError{Existing: env.Data}
		}
		return fmt.Errorf("%s: %w", msg, apperrors.ErrConflict)
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", msg, apperrors.ErrUnauthorized)
	case http.StatusForbidden:
		return fmt.Errorf("%s: %w", msg, apperrors.ErrForbidden)
	default:
		return fmt.Errorf("%w: status %d: %s", apperrors.ErrTransport, status, msg)
	}
}

// IsTransport reports whether err is a connectivity or server failure rather
// than a rejected request.
func IsTransport(err error) bool {
	return errors.Is(err, apperrors.ErrTransport)
}
