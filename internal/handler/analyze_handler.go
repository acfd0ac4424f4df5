package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/redpen-labs/redpen-api/internal/dto"
	"github.com/redpen-labs/redpen-api/internal/service"
	"github.com/redpen-labs/redpen-api/internal/utils"
	"github.com/redpen-labs/redpen-api/pkg/ai"
)

// AnalyzeHandler exposes the essay analysis endpoint.
type AnalyzeHandler struct {
	service service.AnalysisService
	logger  zerolog.Logger
}

// NewAnalyzeHandler builds an analyze handler instance.
func NewAnalyzeHandler(service service.AnalysisService, logger zerolog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		service: service,
		logger:  logger.With().Str("component", "analyze_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AnalyzeHandler) Register(router fiber.Router) {
	router.Post("", h.analyze)
}

func (h *AnalyzeHandler) analyze(c *fiber.Ctx) error {
	var payload dto.AnalyzeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	var studentID *uint
	if id := userIDFromContext(c); id != 0 {
		studentID = &id
	}

	response, err := h.service.Analyze(c.Context(), studentID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, response)
}

func (h *AnalyzeHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrTeacherNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "teacher not found")
	case errors.Is(err, service.ErrSchoolNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "school not found")
	case errors.Is(err, ai.ErrInvalidInput):
		return utils.SendError(c, fiber.StatusBadRequest, "missing required fields")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, "missing required fields")
	case errors.Is(err, ai.ErrMalformedResponse), errors.Is(err, ai.ErrUpstream):
		requestLogger(h.logger, c).Error().Err(err).Msg("analysis failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "analysis failed")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
