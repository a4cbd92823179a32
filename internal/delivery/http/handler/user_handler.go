package handler

import (
	"github.com/gofiber/fiber/v3"

	"skill-matrix/internal/delivery/http/middleware"
	"skill-matrix/internal/pkg/response"
	"skill-matrix/internal/usecase"
)

// MeHandler serves the signed-in user's own account and competency view.
type MeHandler struct {
	auth       usecase.AuthUsecase
	competency *usecase.CompetencyService
}

func NewMeHandler(auth usecase.AuthUsecase, competency *usecase.CompetencyService) *MeHandler {
	return &MeHandler{auth: auth, competency: competency}
}

func (h *MeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.GetMe)
	r.Get("/competency", h.GetCompetency)
}

func (h *MeHandler) GetMe(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	u, err := h.auth.Me(c.Context(), userID)
	if err != nil {
		return err
	}
	return response.OK(c, u)
}

func (h *MeHandler) GetCompetency(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	view, err := h.competency.Competency(c.Context(), userID)
	if err != nil {
		return err
	}
	return response.OK(c, view)
}
