package handler

import (
	"github.com/gofiber/fiber/v3"

	"skill-matrix/internal/delivery/http/dto"
	"skill-matrix/internal/delivery/http/middleware"
	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/domain/mapping"
	"skill-matrix/internal/pkg/response"
	"skill-matrix/internal/usecase"
)

type SkillMapHandler struct {
	svc *usecase.SkillMapService
}

func NewSkillMapHandler(svc *usecase.SkillMapService) *SkillMapHandler {
	return &SkillMapHandler{svc: svc}
}

func (h *SkillMapHandler) RegisterRoutes(r fiber.Router, writeGuard fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/:id", h.Get)
	r.Post("/", writeGuard, h.Upsert)
	r.Delete("/:id", writeGuard, h.Delete)
}

// List answers ?userId=N for one employee. Employees are always scoped to
// themselves; asking for someone else is forbidden.
func (h *SkillMapHandler) List(c fiber.Ctx) error {
	userID, ok, err := queryID(c, "userId")
	if err != nil {
		return err
	}
	if middleware.Role(c) != catalog.RoleManager {
		self, _ := middleware.UserID(c)
		if ok && userID != self {
			return middleware.Forbidden()
		}
		userID, ok = self, true
	}
	var items []mapping.SkillMap
	if ok {
		items, err = h.svc.ListByUser(c.Context(), userID)
	} else {
		items, err = h.svc.List(c.Context())
	}
	if err != nil {
		return err
	}
	return response.OK(c, items)
}

func (h *SkillMapHandler) Get(c fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	sm, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return err
	}
	if !middleware.CanRead(c, sm.UserID) {
		return middleware.Forbidden()
	}
	return response.OK(c, sm)
}

func (h *SkillMapHandler) Upsert(c fiber.Ctx) error {
	req := mapping.SkillMap{Active: true}
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	saved, removed, err := h.svc.Upsert(c.Context(), middleware.Actor(c), req)
	if err != nil {
		return err
	}
	res := dto.SkillMapResponse[mapping.SkillMap]{Removed: removed}
	if !removed {
		res.Record = &saved
	}
	return response.OK(c, res)
}

func (h *SkillMapHandler) Delete(c fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "deleted", nil)
}
