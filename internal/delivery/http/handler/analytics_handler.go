package handler

import (
	"bytes"

	"github.com/gofiber/fiber/v3"

	"skill-matrix/internal/pkg/response"
	"skill-matrix/internal/usecase"
)

type AnalyticsHandler struct {
	svc *usecase.AnalyticsService
}

func NewAnalyticsHandler(svc *usecase.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.Summary)
	r.Get("/overview", h.Overview)
	r.Get("/leaderboard.csv", h.LeaderboardCSV)
}

func (h *AnalyticsHandler) Summary(c fiber.Ctx) error {
	sum, err := h.svc.Summary(c.Context())
	if err != nil {
		return err
	}
	return response.OK(c, sum)
}

func (h *AnalyticsHandler) Overview(c fiber.Ctx) error {
	o, err := h.svc.Overview(c.Context())
	if err != nil {
		return err
	}
	return response.OK(c, o)
}

func (h *AnalyticsHandler) LeaderboardCSV(c fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.svc.WriteLeaderboardCSV(c.Context(), &buf); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="leaderboard.csv"`)
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}
