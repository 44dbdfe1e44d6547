package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/lukajvnic/Avocado/internal/model"
	"github.com/lukajvnic/Avocado/internal/repository"
)

// StatsHandler serves aggregate counts over the stored check history.
type StatsHandler struct {
	repo *repository.CheckRepo // nil when no database is configured
	log  zerolog.Logger
}

func NewStatsHandler(repo *repository.CheckRepo, log zerolog.Logger) *StatsHandler {
	return &StatsHandler{
		repo: repo,
		log:  log.With().Str("component", "stats_handler").Logger(),
	}
}

// GetStats handles GET /api/v1/stats
func (h *StatsHandler) GetStats(c fiber.Ctx) error {
	if h.repo == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "STATS_UNAVAILABLE",
				"message": "Statistics require a configured database",
			},
		})
	}

	counts, err := h.repo.CountByLevel(c.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to aggregate check stats")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to fetch statistics",
			},
		})
	}

	// Levels absent from the table still appear as zeroes so the payload
	// shape is stable.
	byLevel := map[model.CredibilityLevel]int64{
		model.CredibilityHigh:    0,
		model.CredibilityMedium:  0,
		model.CredibilityLow:     0,
		model.CredibilityUnknown: 0,
	}
	var total int64
	for level, n := range counts {
		byLevel[level] = n
		total += n
	}

	return c.JSON(fiber.Map{
		"total_checks": total,
		"by_level":     byLevel,
	})
}
