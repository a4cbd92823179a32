package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"skill-matrix/internal/pkg/response"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck reports nil when a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// HealthHandler reports liveness plus the state of each named dependency. A
// failing dependency is reported but does not fail the request.
type HealthHandler struct {
	checks map[string]HealthCheck
}

func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthCheckTimeout)
	defer cancel()

	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if check == nil {
			continue
		}
		if err := check(ctx); err != nil {
			deps[name] = "unavailable"
			continue
		}
		deps[name] = "ok"
	}
	return response.OK(c, fiber.Map{"status": "ok", "dependencies": deps})
}
