package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/lukajvnic/Avocado/internal/llm"
	"github.com/lukajvnic/Avocado/internal/model"
	"github.com/lukajvnic/Avocado/internal/repository"
	"github.com/lukajvnic/Avocado/internal/service"
	"github.com/lukajvnic/Avocado/internal/supadata"
)

// CheckHandler runs the full fact-check pipeline for a submitted video link.
type CheckHandler struct {
	scraper *service.ScrapeService
	checker *service.FactCheckService
	results *service.ResultCache
	repo    *repository.CheckRepo // nil when no database is configured
	timeout time.Duration
	log     zerolog.Logger
}

func NewCheckHandler(
	scraper *service.ScrapeService,
	checker *service.FactCheckService,
	results *service.ResultCache,
	repo *repository.CheckRepo,
	timeout time.Duration,
	log zerolog.Logger,
) *CheckHandler {
	return &CheckHandler{
		scraper: scraper,
		checker: checker,
		results: results,
		repo:    repo,
		timeout: timeout,
		log:     log.With().Str("component", "check_handler").Logger(),
	}
}

// Check handles POST /api/v1/check.
func (h *CheckHandler) Check(c fiber.Ctx) error {
	var req model.CheckRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INVALID_BODY",
				"message": "Request body must be JSON with a url field",
			},
		})
	}

	videoURL := strings.TrimSpace(req.URL)
	if videoURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "MISSING_URL",
				"message": "url is required",
			},
		})
	}

	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	cached, err := h.results.GetResult(ctx, videoURL)
	switch {
	case err != nil:
		// An unreachable cache is not a miss; the pipeline still runs.
		Metrics.ResultCacheErrors.Inc()
		h.log.Warn().Err(err).Msg("result cache lookup failed")
	case cached != nil:
		Metrics.ResultCacheHits.Inc()
		return c.JSON(cached)
	default:
		Metrics.ResultCacheMisses.Inc()
	}

	data, err := h.scraper.FetchVideoData(ctx, videoURL)
	if err != nil {
		return h.errorResponse(c, err)
	}

	result, err := h.checker.AnalyzeCredibility(ctx, data)
	if err != nil {
		return h.errorResponse(c, err)
	}

	// Persistence and caching are best-effort; the client already has its
	// answer in hand.
	if h.repo != nil {
		if _, err := h.repo.Insert(context.WithoutCancel(ctx), data.VideoID, result); err != nil {
			h.log.Warn().Err(err).Msg("failed to persist check record")
		}
	}
	if err := h.results.SetResult(context.WithoutCancel(ctx), videoURL, result); err != nil {
		h.log.Warn().Err(err).Msg("failed to cache check result")
	}

	return c.JSON(result)
}

// errorResponse maps pipeline failures onto the API error contract.
func (h *CheckHandler) errorResponse(c fiber.Ctx, err error) error {
	var invalidURL *service.InvalidURLError
	if errors.As(err, &invalidURL) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INVALID_URL",
				"message": "Please provide a valid TikTok video URL",
			},
		})
	}

	switch {
	case supadata.IsAuth(err) || llm.IsAuth(err):
		h.log.Error().Err(err).Msg("upstream credentials rejected")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "CONFIGURATION_ERROR",
				"message": "Service is misconfigured. Please contact the administrator.",
			},
		})
	case supadata.IsQuota(err) || llm.IsQuota(err):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "QUOTA_EXCEEDED",
				"message": "Upstream API quota exhausted. Please try again later.",
			},
		})
	case supadata.IsRateLimited(err) || llm.IsRateLimited(err):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "UPSTREAM_RATE_LIMITED",
				"message": "Upstream API rate limit hit. Recently checked videos are still served from cache.",
			},
		})
	}

	h.log.Error().Err(err).Msg("check pipeline failed")
	if _, ok := supadata.AsError(err); ok {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "UPSTREAM_UNAVAILABLE",
				"message": "Failed to fetch video data. Please try again later.",
			},
		})
	}
	if _, ok := llm.AsError(err); ok {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "ANALYSIS_UNAVAILABLE",
				"message": "Credibility analysis failed. Please try again later.",
			},
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "INTERNAL_ERROR",
			"message": "An unexpected error occurred",
		},
	})
}
