package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/lukajvnic/Avocado/internal/model"
	"github.com/lukajvnic/Avocado/internal/repository"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// HistoryHandler serves previously completed checks.
type HistoryHandler struct {
	repo *repository.CheckRepo // nil when no database is configured
	log  zerolog.Logger
}

func NewHistoryHandler(repo *repository.CheckRepo, log zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		repo: repo,
		log:  log.With().Str("component", "history_handler").Logger(),
	}
}

// List handles GET /api/v1/history?limit=N
func (h *HistoryHandler) List(c fiber.Ctx) error {
	if h.repo == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "HISTORY_UNAVAILABLE",
				"message": "Check history requires a configured database",
			},
		})
	}

	limit := fiber.Query[int](c, "limit", defaultHistoryLimit)
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := h.repo.ListRecent(c.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list check history")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to load check history",
			},
		})
	}
	if records == nil {
		records = []model.CheckRecord{}
	}

	return c.JSON(fiber.Map{"checks": records})
}
