package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/redpen-labs/redpen-api/internal/service"
	"github.com/redpen-labs/redpen-api/internal/utils"
)

// DirectoryHandler serves the school/teacher selection listings used by
// the submission wizard.
type DirectoryHandler struct {
	service service.DirectoryService
	logger  zerolog.Logger
}

// NewDirectoryHandler builds a directory handler instance.
func NewDirectoryHandler(service service.DirectoryService, logger zerolog.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		service: service,
		logger:  logger.With().Str("component", "directory_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *DirectoryHandler) Register(router fiber.Router) {
	router.Get("/schools", h.schools)
	router.Get("/schools/:id/teachers", h.teachers)
}

func (h *DirectoryHandler) schools(c *fiber.Ctx) error {
	schools, err := h.service.Schools(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, schools)
}

func (h *DirectoryHandler) teachers(c *fiber.Ctx) error {
	schoolID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	teachers, err := h.service.Teachers(c.Context(), schoolID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, teachers)
}

func (h *DirectoryHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSchoolNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "school not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
