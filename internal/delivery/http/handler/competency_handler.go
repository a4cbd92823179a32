package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"skill-matrix/internal/apperrors"
	"skill-matrix/internal/delivery/http/dto"
	"skill-matrix/internal/delivery/http/middleware"
	"skill-matrix/internal/pkg/response"
	"skill-matrix/internal/usecase"
)

// CompetencyHandler serves an employee's scope and stats and takes batch
// grade saves. Mounted under /users/:id.
type CompetencyHandler struct {
	svc *usecase.CompetencyService
}

func NewCompetencyHandler(svc *usecase.CompetencyService) *CompetencyHandler {
	return &CompetencyHandler{svc: svc}
}

// RegisterRoutes mounts the reads behind readGuard and the grade writes
// behind writeGuard.
func (h *CompetencyHandler) RegisterRoutes(r fiber.Router, readGuard, writeGuard fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/:id/scope", readGuard, h.Scope)
	r.Get("/:id/stats", readGuard, h.Stats)
	r.Get("/:id/competency", readGuard, h.Competency)
	r.Post("/:id/grades/preview", readGuard, h.Preview)
	r.Post("/:id/grades", writeGuard, h.SaveGrades)
}

func (h *CompetencyHandler) Scope(c fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	scope, err := h.svc.Scope(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, scope)
}

func (h *CompetencyHandler) Stats(c fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	stats, err := h.svc.Stats(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, stats)
}

func (h *CompetencyHandler) Competency(c fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	view, err := h.svc.Competency(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, view)
}

func (h *CompetencyHandler) Preview(c fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.SaveGradesRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	stats, err := h.svc.Preview(c.Context(), id, req.Changes)
	if err != nil {
		return err
	}
	return response.OK(c, stats)
}

// SaveGrades answers 200 when every change applied and 207 with the failed
// items when only some did.
func (h *CompetencyHandler) SaveGrades(c fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.SaveGradesRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	res, err := h.svc.SaveGrades(c.Context(), middleware.Actor(c), id, req.Changes)
	if err != nil {
		var batch *apperrors.BatchError
		if errors.As(err, &batch) {
			return response.Success(c, fiber.StatusMultiStatus, response.MessagePartial, res)
		}
		return err
	}
	return response.OK(c, res)
}
