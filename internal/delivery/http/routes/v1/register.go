package v1

import (
	"github.com/gofiber/fiber/v3"

	"skill-matrix/internal/delivery/http/handler"
	"skill-matrix/internal/delivery/http/middleware"
)

// ResourceRoutes is any handler that mounts CRUD routes with its writes
// behind a guard.
type ResourceRoutes interface {
	RegisterRoutes(r fiber.Router, writeGuard fiber.Handler)
}

// Resource pairs a path segment with its handler.
type Resource struct {
	Path    string
	Handler ResourceRoutes
}

type Handlers struct {
	Auth       *handler.AuthHandler
	Me         *handler.MeHandler
	Competency *handler.CompetencyHandler
	Analytics  *handler.AnalyticsHandler
	Resources  []Resource
}

func Register(r fiber.Router, h Handlers, authMw *middleware.AuthMiddleware) {
	if r == nil || authMw == nil {
		return
	}

	managerOnly := middleware.RequireManager()
	selfOrManager := middleware.RequireSelfOrManager()

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}

	protected := r.Group("", authMw.Middleware())

	if h.Me != nil {
		h.Me.RegisterRoutes(protected.Group("/me"))
	}
	for _, res := range h.Resources {
		if res.Handler == nil {
			continue
		}
		res.Handler.RegisterRoutes(protected.Group("/"+res.Path), managerOnly)
	}
	if h.Competency != nil {
		h.Competency.RegisterRoutes(protected.Group("/users"), selfOrManager, managerOnly)
	}
	if h.Analytics != nil {
		h.Analytics.RegisterRoutes(protected.Group("/analytics", managerOnly))
	}
}
