package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/redpen-labs/redpen-api/internal/dto"
	"github.com/redpen-labs/redpen-api/internal/service"
	"github.com/redpen-labs/redpen-api/internal/utils"
	"github.com/redpen-labs/redpen-api/pkg/gdocs"
)

// ImportHandler exposes the document import endpoints.
type ImportHandler struct {
	service service.ImportService
	logger  zerolog.Logger
}

// NewImportHandler builds an import handler instance.
func NewImportHandler(service service.ImportService, logger zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		service: service,
		logger:  logger.With().Str("component", "import_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ImportHandler) Register(router fiber.Router) {
	router.Post("/google-doc", h.googleDoc)
	router.Post("/upload", h.upload)
}

func (h *ImportHandler) googleDoc(c *fiber.Ctx) error {
	var payload dto.GoogleDocImportRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.FromGoogleDoc(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, response)
}

func (h *ImportHandler) upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	response, err := h.service.FromUpload(c.Context(), file)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, response)
}

func (h *ImportHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, gdocs.ErrInvalidURL):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid google docs url")
	case errors.Is(err, service.ErrMissingProviderToken):
		return utils.SendError(c, fiber.StatusForbidden, "google account not connected")
	case errors.Is(err, gdocs.ErrPermission):
		return utils.SendError(c, fiber.StatusForbidden, "google token expired or insufficient permissions")
	case errors.Is(err, service.ErrUnsupportedFileType):
		return utils.SendError(c, fiber.StatusBadRequest, "only plain text files are supported")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, "missing required fields")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("document import failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to import document")
	}
}
