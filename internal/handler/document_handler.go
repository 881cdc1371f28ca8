package handler

import (
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/answerly/scoring-api/internal/dto"
	"github.com/answerly/scoring-api/internal/service"
	"github.com/answerly/scoring-api/internal/utils"
	"github.com/answerly/scoring-api/pkg/extract"
)

// DocumentHandler scores answers submitted as scanned documents. Text
// extraction is delegated to an external capability; this handler only
// detects the content type and bridges to the evaluation service.
type DocumentHandler struct {
	service   service.EvaluationService
	extractor extract.TextExtractor
	logger    zerolog.Logger
}

// NewDocumentHandler builds a document evaluation handler. The extractor may
// be nil when the deployment has no extraction service wired.
func NewDocumentHandler(service service.EvaluationService, extractor extract.TextExtractor, logger zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{
		service:   service,
		extractor: extractor,
		logger:    logger.With().Str("component", "document_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *DocumentHandler) Register(router fiber.Router) {
	router.Post("/document", h.evaluateDocument)
}

func (h *DocumentHandler) evaluateDocument(c *fiber.Ctx) error {
	if h.extractor == nil {
		return utils.SendError(c, fiber.StatusServiceUnavailable, string(dto.ErrorKindBackend), "document extraction is not configured")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, string(dto.ErrorKindValidation), "file is required")
	}

	referenceText := c.FormValue("reference_text")
	if referenceText == "" {
		return utils.SendError(c, fiber.StatusBadRequest, string(dto.ErrorKindValidation), "reference_text is required")
	}

	maxMarks, err := parseFormFloat(c, "max_marks")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, string(dto.ErrorKindValidation), "invalid max_marks")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, string(dto.ErrorKindValidation), "unreadable file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, string(dto.ErrorKindValidation), "unreadable file")
	}

	detected := mimetype.Detect(data)
	extracted, err := h.extractor.Extract(c.Context(), data, detected.String())
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Str("mime_type", detected.String()).Msg("text extraction failed")
		return utils.SendError(c, fiber.StatusBadGateway, string(dto.ErrorKindBackend), "text extraction failed")
	}

	result, err := h.service.Evaluate(c.Context(), dto.EvaluationRequest{
		ReferenceText: referenceText,
		CandidateText: extracted,
		Backend:       dto.Backend(c.FormValue("backend")),
		MaxMarks:      maxMarks,
	})
	if err != nil {
		return sendEvaluationError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "document evaluation completed", result)
}
